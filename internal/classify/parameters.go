package classify

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// ParamType groups query parameters by purpose.
type ParamType string

const (
	TypeTracking    ParamType = "tracking"
	TypePersonal    ParamType = "personal"
	TypeSession     ParamType = "session"
	TypeAttribution ParamType = "attribution"
	TypeFunctional  ParamType = "functional"
	TypeUnknown     ParamType = "unknown"
)

// Privacy is the sensitivity of a parameter's value.
type Privacy string

const (
	PrivacyLow     Privacy = "low"
	PrivacyMedium  Privacy = "medium"
	PrivacyHigh    Privacy = "high"
	PrivacyUnknown Privacy = "unknown"
)

// TypeInfo carries display hints for a ParamType.
type TypeInfo struct {
	Privacy Privacy `json:"privacy"`
	Color   string  `json:"color"`
	Icon    string  `json:"icon"`
}

var typeInfo = map[ParamType]TypeInfo{
	TypeTracking:    {Privacy: PrivacyLow, Color: "blue", Icon: "📈"},
	TypePersonal:    {Privacy: PrivacyHigh, Color: "amber", Icon: "🔐"},
	TypeSession:     {Privacy: PrivacyMedium, Color: "gray", Icon: "🔒"},
	TypeAttribution: {Privacy: PrivacyLow, Color: "green", Icon: "🎯"},
	TypeFunctional:  {Privacy: PrivacyLow, Color: "purple", Icon: "⚙️"},
	TypeUnknown:     {Privacy: PrivacyUnknown, Color: "gray", Icon: "❓"},
}

// TypeInfoFor returns the display hints for t, falling back to the unknown type.
func TypeInfoFor(t ParamType) TypeInfo {
	if info, ok := typeInfo[t]; ok {
		return info
	}
	return typeInfo[TypeUnknown]
}

// ParameterEntry describes a known query parameter.
type ParameterEntry struct {
	Type        ParamType
	Privacy     Privacy
	Description string
	Highlight   bool
}

// parameterTable is keyed by lower-case parameter name.
var parameterTable = map[string]ParameterEntry{
	"utm_source":   {TypeAttribution, PrivacyLow, "Traffic source identifier (e.g., google, newsletter)", false},
	"utm_medium":   {TypeAttribution, PrivacyLow, "Marketing medium (e.g., email, social, cpc)", false},
	"utm_campaign": {TypeAttribution, PrivacyLow, "Campaign name for tracking performance", false},
	"utm_term":     {TypeAttribution, PrivacyLow, "Paid search keywords", false},
	"utm_content":  {TypeAttribution, PrivacyLow, "Content variation identifier", false},
	"utm_id":       {TypeAttribution, PrivacyLow, "Campaign ID for analytics", false},

	"gclid":   {TypeTracking, PrivacyMedium, "Google Ads click identifier", false},
	"fbclid":  {TypeTracking, PrivacyMedium, "Facebook click identifier", false},
	"msclkid": {TypeTracking, PrivacyMedium, "Microsoft Ads click identifier", false},
	"ttclid":  {TypeTracking, PrivacyMedium, "TikTok click identifier", false},

	"user_id":     {TypePersonal, PrivacyHigh, "Personal user identifier", true},
	"email":       {TypePersonal, PrivacyHigh, "Email address", true},
	"customer_id": {TypePersonal, PrivacyHigh, "Customer account identifier", true},
	"account_id":  {TypePersonal, PrivacyHigh, "Account identifier", true},
	"phone":       {TypePersonal, PrivacyHigh, "Phone number", true},

	"session_id": {TypeSession, PrivacyMedium, "Browser session identifier", false},
	"token":      {TypeSession, PrivacyMedium, "Authentication or access token", false},
	"auth":       {TypeSession, PrivacyMedium, "Authentication parameter", false},
	"api_key":    {TypeSession, PrivacyMedium, "API access key", false},

	"ref":          {TypeAttribution, PrivacyLow, "Referral source", false},
	"source":       {TypeAttribution, PrivacyLow, "Traffic source", false},
	"referrer":     {TypeAttribution, PrivacyLow, "Referring website", false},
	"affiliate_id": {TypeAttribution, PrivacyLow, "Affiliate program identifier", false},

	"redirect_uri": {TypeFunctional, PrivacyLow, "Destination after authentication", false},
	"callback":     {TypeFunctional, PrivacyLow, "Callback URL parameter", false},
	"return_url":   {TypeFunctional, PrivacyLow, "Return destination URL", false},
	"next":         {TypeFunctional, PrivacyLow, "Next page destination", false},

	"campaign_id":   {TypeTracking, PrivacyLow, "Marketing campaign identifier", false},
	"click_id":      {TypeTracking, PrivacyMedium, "Click tracking identifier", false},
	"visitor_id":    {TypeTracking, PrivacyMedium, "Visitor tracking identifier", false},
	"experiment_id": {TypeTracking, PrivacyLow, "A/B test experiment identifier", false},

	"product_id":    {TypeFunctional, PrivacyLow, "Product identifier", false},
	"category_id":   {TypeFunctional, PrivacyLow, "Product category identifier", false},
	"coupon":        {TypeFunctional, PrivacyLow, "Discount coupon code", false},
	"discount_code": {TypeFunctional, PrivacyLow, "Discount code parameter", false},
}

// LookupParameter finds key in the parameter table, ignoring case.
func LookupParameter(key string) (ParameterEntry, bool) {
	e, ok := parameterTable[strings.ToLower(key)]
	return e, ok
}

const (
	maxValueRunes = 50
	keptRunes     = 47
)

// Parameter is one analyzed query pair.
type Parameter struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	FullValue   string    `json:"fullValue"`
	Type        ParamType `json:"type"`
	Privacy     Privacy   `json:"privacy"`
	Description string    `json:"description"`
	Highlight   bool      `json:"highlight,omitempty"`
	TypeInfo    TypeInfo  `json:"typeInfo"`
}

// ParameterAnalysis is the result of AnalyzeParameters.
type ParameterAnalysis struct {
	Params            []Parameter `json:"params"`
	TotalCount        int         `json:"totalCount"`
	PersonalDataCount int         `json:"personalDataCount"`
	HasPersonalData   bool        `json:"hasPersonalData"`
	Error             string      `json:"error,omitempty"`
}

// AnalyzeParameters classifies every query pair of rawURL in order, keeping
// duplicate keys.
func AnalyzeParameters(rawURL string) ParameterAnalysis {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Scheme == "" {
		return ParameterAnalysis{Params: []Parameter{}, Error: "Invalid URL"}
	}

	a := ParameterAnalysis{Params: []Parameter{}}
	for _, kv := range queryPairs(u.RawQuery) {
		p := Parameter{
			Key:       kv.key,
			Value:     truncate(kv.value),
			FullValue: kv.value,
		}
		if e, ok := LookupParameter(kv.key); ok {
			p.Type = e.Type
			p.Privacy = e.Privacy
			p.Description = e.Description
			p.Highlight = e.Highlight
			if e.Privacy == PrivacyHigh {
				a.PersonalDataCount++
			}
		} else {
			p.Type = TypeUnknown
			p.Privacy = PrivacyUnknown
			p.Description = "Unknown parameter"
		}
		p.TypeInfo = TypeInfoFor(p.Type)
		a.Params = append(a.Params, p)
	}
	a.TotalCount = len(a.Params)
	a.HasPersonalData = a.PersonalDataCount > 0
	return a
}

// GenerateParameterInsight summarizes an analysis in one line. It returns
// false when there are no parameters.
func GenerateParameterInsight(a ParameterAnalysis) (string, bool) {
	if a.TotalCount == 0 {
		return "", false
	}

	var tracking, attribution int
	for _, p := range a.Params {
		switch p.Type {
		case TypeTracking:
			tracking++
		case TypeAttribution:
			attribution++
		}
	}

	var parts []string
	if a.PersonalDataCount > 0 {
		parts = append(parts, fmt.Sprintf("Contains %d personal identifier%s", a.PersonalDataCount, plural(a.PersonalDataCount)))
	}
	if tracking > 0 {
		parts = append(parts, fmt.Sprintf("%d tracking parameter%s", tracking, plural(tracking)))
	}
	if attribution > 0 {
		parts = append(parts, "Campaign attribution tracking")
	}
	if len(parts) == 0 {
		parts = append(parts, "Functional parameters")
	}
	return strings.Join(parts, " • "), true
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}

func truncate(v string) string {
	if utf8.RuneCountInString(v) <= maxValueRunes {
		return v
	}
	return string([]rune(v)[:keptRunes]) + "..."
}

type pair struct {
	key, value string
}

// queryPairs splits a raw query the way browsers do for URLSearchParams:
// order and duplicates are kept, '+' means space and undecodable escapes are
// left as written. url.Values loses the order, so it is not used here.
func queryPairs(raw string) []pair {
	var out []pair
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		out = append(out, pair{key: decodeComponent(k), value: decodeComponent(v)})
	}
	return out
}

func decodeComponent(s string) string {
	s = strings.ReplaceAll(s, "+", " ")
	if !strings.Contains(s, "%") {
		return s
	}
	if d, err := url.PathUnescape(s); err == nil {
		return d
	}
	// Decode valid escapes one at a time and keep the rest verbatim.
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
