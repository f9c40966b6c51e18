package present

// Config contains window-related settings for the windowed presenter.
type Config struct {
	Title string // window title
	Scale int    // integer upscaling factor
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "vt168ppu"
	}
	if c.Scale <= 0 {
		c.Scale = 3
	}
}
