package classify

import (
	"regexp"

	"github.com/selimozcann/linktracer/internal/util"
)

// CategoryKey identifies a domain category.
type CategoryKey string

const (
	Shortener      CategoryKey = "shortener"
	Analytics      CategoryKey = "analytics"
	Advertising    CategoryKey = "advertising"
	Social         CategoryKey = "social"
	Ecommerce      CategoryKey = "ecommerce"
	Infrastructure CategoryKey = "infrastructure"
	Email          CategoryKey = "email"
	Tracking       CategoryKey = "tracking"
)

// Category is the display form of a CategoryKey.
type Category struct {
	Key  CategoryKey `json:"key"`
	Name string      `json:"name"`
	Icon string      `json:"icon"`
}

var categories = map[CategoryKey]Category{
	Shortener:      {Key: Shortener, Name: "Link Shortener", Icon: "🔗"},
	Analytics:      {Key: Analytics, Name: "Analytics", Icon: "📊"},
	Advertising:    {Key: Advertising, Name: "Advertising", Icon: "💰"},
	Social:         {Key: Social, Name: "Social Media", Icon: "📱"},
	Ecommerce:      {Key: Ecommerce, Name: "E-commerce", Icon: "🛒"},
	Infrastructure: {Key: Infrastructure, Name: "Infrastructure", Icon: "☁️"},
	Email:          {Key: Email, Name: "Email Service", Icon: "📧"},
	Tracking:       {Key: Tracking, Name: "Tracking", Icon: "🎯"},
}

// CategoryFor returns the display category for key.
func CategoryFor(key CategoryKey) (Category, bool) {
	c, ok := categories[key]
	return c, ok
}

// DomainClassification names a known service and its category.
type DomainClassification struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
}

type domainEntry struct {
	host     string
	category CategoryKey
	name     string
}

// domainEntries is folded into domainTable in order, so a host listed twice
// keeps its last definition.
var domainEntries = []domainEntry{
	{"bit.ly", Shortener, "Bitly"},
	{"tinyurl.com", Shortener, "TinyURL"},
	{"t.co", Shortener, "Twitter Shortener"},
	{"goo.gl", Shortener, "Google Shortener"},
	{"short.link", Shortener, "Short.link"},
	{"rebrand.ly", Shortener, "Rebrandly"},
	{"ow.ly", Shortener, "Hootsuite Shortener"},
	{"buff.ly", Shortener, "Buffer Shortener"},
	{"cutt.ly", Shortener, "Cutt.ly"},
	{"s.id", Shortener, "S.id"},

	{"google-analytics.com", Analytics, "Google Analytics"},
	{"googletagmanager.com", Analytics, "Google Tag Manager"},
	{"facebook.com", Analytics, "Facebook Tracking"},
	{"doubleclick.net", Advertising, "Google Ads"},
	{"googlesyndication.com", Advertising, "Google AdSense"},
	{"googleadservices.com", Advertising, "Google Ads"},
	{"amazon-adsystem.com", Advertising, "Amazon Advertising"},
	{"adsystem.amazon.com", Advertising, "Amazon Advertising"},
	{"hotjar.com", Analytics, "Hotjar"},
	{"mixpanel.com", Analytics, "Mixpanel"},
	{"segment.com", Analytics, "Segment"},
	{"amplitude.com", Analytics, "Amplitude"},

	{"facebook.com", Social, "Facebook"},
	{"instagram.com", Social, "Instagram"},
	{"twitter.com", Social, "Twitter"},
	{"x.com", Social, "X (Twitter)"},
	{"linkedin.com", Social, "LinkedIn"},
	{"youtube.com", Social, "YouTube"},
	{"tiktok.com", Social, "TikTok"},
	{"snapchat.com", Social, "Snapchat"},
	{"pinterest.com", Social, "Pinterest"},
	{"reddit.com", Social, "Reddit"},

	{"amazon.com", Ecommerce, "Amazon"},
	{"ebay.com", Ecommerce, "eBay"},
	{"etsy.com", Ecommerce, "Etsy"},
	{"walmart.com", Ecommerce, "Walmart"},
	{"target.com", Ecommerce, "Target"},
	{"bestbuy.com", Ecommerce, "Best Buy"},
	{"paypal.com", Ecommerce, "PayPal"},
	{"stripe.com", Ecommerce, "Stripe"},

	{"mailchimp.com", Email, "Mailchimp"},
	{"constantcontact.com", Email, "Constant Contact"},
	{"sendinblue.com", Email, "Sendinblue"},
	{"mailgun.com", Email, "Mailgun"},
	{"sendgrid.com", Email, "SendGrid"},

	{"cloudflare.com", Infrastructure, "Cloudflare"},
	{"amazonaws.com", Infrastructure, "Amazon Web Services"},
	{"azurewebsites.net", Infrastructure, "Microsoft Azure"},
	{"herokuapp.com", Infrastructure, "Heroku"},
	{"vercel.app", Infrastructure, "Vercel"},
	{"netlify.app", Infrastructure, "Netlify"},
	{"github.io", Infrastructure, "GitHub Pages"},

	{"branch.io", Tracking, "Branch Deep Linking"},
	{"appsflyer.com", Tracking, "AppsFlyer"},
	{"adjust.com", Tracking, "Adjust"},
}

var domainTable = buildDomainTable(domainEntries)

func buildDomainTable(entries []domainEntry) map[string]DomainClassification {
	t := make(map[string]DomainClassification, len(entries))
	for _, e := range entries {
		t[e.host] = DomainClassification{Name: e.name, Category: categories[e.category]}
	}
	return t
}

type domainPattern struct {
	re       *regexp.Regexp
	category CategoryKey
	name     string
}

// domainPatterns are tried in order after an exact lookup misses.
var domainPatterns = []domainPattern{
	{regexp.MustCompile(`^.*\.myshopify\.com$`), Ecommerce, "Shopify Store"},
	{regexp.MustCompile(`^.*\.shopifypreview\.com$`), Ecommerce, "Shopify Preview"},
	{regexp.MustCompile(`^.*\.cloudfront\.net$`), Infrastructure, "AWS CloudFront"},
	{regexp.MustCompile(`^.*\.googleapis\.com$`), Infrastructure, "Google APIs"},
	{regexp.MustCompile(`^.*\.google\.com$`), Analytics, "Google Service"},
	{regexp.MustCompile(`^.*\.jsdelivr\.net$`), Infrastructure, "jsDelivr CDN"},
	{regexp.MustCompile(`^.*\.unpkg\.com$`), Infrastructure, "unpkg CDN"},
	{regexp.MustCompile(`^.*\.fbcdn\.net$`), Social, "Facebook CDN"},
	{regexp.MustCompile(`^.*\.twimg\.com$`), Social, "Twitter Images"},
	{regexp.MustCompile(`^[a-z0-9]{4,8}\.(com|net|org)$`), Shortener, "Short Domain"},
}

// ClassifyDomain looks hostname up in the domain table, then in the ordered
// pattern list. The hostname is lower-cased and a trailing dot is ignored.
func ClassifyDomain(hostname string) (DomainClassification, bool) {
	host := util.NormalizeHost(hostname)
	if host == "" {
		return DomainClassification{}, false
	}
	if c, ok := domainTable[host]; ok {
		return c, true
	}
	for _, p := range domainPatterns {
		if p.re.MatchString(host) {
			return DomainClassification{Name: p.name, Category: categories[p.category]}, true
		}
	}
	return DomainClassification{}, false
}
