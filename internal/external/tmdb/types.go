package tmdb

// WatchProviders is the regional slice of the provider availability payload.
type WatchProviders struct {
	Link     string     `json:"link"`
	Flatrate []Provider `json:"flatrate,omitempty"`
	Rent     []Provider `json:"rent,omitempty"`
	Buy      []Provider `json:"buy,omitempty"`
}

type Provider struct {
	ProviderName string `json:"provider_name"`
	LogoPath     string `json:"logo_path"`
}

type watchProvidersResponse struct {
	ID      int                       `json:"id"`
	Results map[string]WatchProviders `json:"results"`
}
