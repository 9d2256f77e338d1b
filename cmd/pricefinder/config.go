package main

type ScrapeConfig struct {
	// leaving this empty disables the scraping provider entirely
	SearchUrl  string `json:"search_url"`
	QueryParam string `json:"query_param"`
	Timeout    string `json:"timeout"`
	CacheTtl   string `json:"cache_ttl"`
}

type Config struct {
	Port     int    `json:"port"`
	CacheTtl string `json:"cache_ttl"`
	// provider priority order, first is tried first;
	// defaults to ["serp", "static-catalog"]
	Providers []string     `json:"providers"`
	Scrape    ScrapeConfig `json:"scrape"`
}
