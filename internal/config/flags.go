package config

// Overrides carries command-line settings that beat the config file. Zero
// values leave the file's setting alone.
type Overrides struct {
	Debug     bool
	Addr      string
	Camera    *int
	NoTray    bool
	Headless  bool
	Particles int
}

func (o Overrides) apply(cfg *Config) {
	if o.Debug {
		cfg.Logging.Level = "debug"
	}
	if o.Addr != "" {
		cfg.Server.Addr = o.Addr
	}
	if o.Camera != nil {
		cfg.Capture.Camera = *o.Camera
		cfg.Capture.Enabled = *o.Camera >= 0
	}
	if o.NoTray {
		cfg.Tray.Enabled = false
	}
	if o.Headless {
		cfg.Tray.Enabled = false
		cfg.Capture.Enabled = false
	}
	if o.Particles > 0 {
		cfg.Particles.Count = o.Particles
	}
}
