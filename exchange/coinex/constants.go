package coinex

const (
	AuthorizationHeader = "authorization"
	UserAgentHeader     = "User-Agent"
	ContentTypeHeader   = "Content-Type"

	AccessIDField  = "access_id"
	TonceField     = "tonce"
	SecretKeyField = "secret_key"

	BaseURL = "https://api.coinex.com/v1"

	// NOTE ~> Some of the exchange's edge nodes reject requests that do not look like they came
	//  from a browser.
	UserAgent = "Mozilla/5.0 (Windows NT 6.1; WOW64) AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/39.0.2171.71 Safari/537.36"
)
