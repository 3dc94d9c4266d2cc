package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// bindFlags maps config keys to flag names so an explicitly set flag wins
// over the file and the environment.
func bindFlags(v *viper.Viper, lookup func(string) *pflag.Flag, keys map[string]string) {
	for key, name := range keys {
		if f := lookup(name); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
}

func zapcoreWriter(cmd *cobra.Command) zapcore.WriteSyncer {
	return zapcore.Lock(zapcore.AddSync(cmd.ErrOrStderr()))
}
