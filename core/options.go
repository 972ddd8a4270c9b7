package core

// Option configures a Changelog at construction time.
type Option func(*Changelog)

// WithEditor swaps the byte-mutation service. Tests use this to inject a
// failing editor.
func WithEditor(e FileEditor) Option {
	return func(c *Changelog) { c.Editor = e }
}

// WithDebug enables diagnostic files in quarantine entries and verbose
// failure logging.
func WithDebug(debug bool) Option {
	return func(c *Changelog) { c.Debug = debug }
}
