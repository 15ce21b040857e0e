package constants

const (
	Name = "coinex"

	// EnvPrefix prefixes every environment variable the tooling reads (e.g. COINEX_API_KEY).
	EnvPrefix = "COINEX"

	LogPrefixFmt = "%-10s "
)
