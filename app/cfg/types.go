package cfg

type Cfg struct {
	// HTTP server
	Port      string
	StaticDir string

	// Storage
	StoreBackend string
	DataDir      string
	DBPath       string

	// Scraping
	SourcesFile    string
	ScrapeInterval int
	HTTPTimeout    int
	UserAgent      string

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}
