package sbscript

// Config holds the parser's authoring-tool-compatible fallbacks: the
// enum defaults §7.4 mandates for an unresolved reference, and the
// volume a Sample gets when its volume field is missing or non-numeric.
type Config struct {
	DefaultLayer         Layer
	DefaultOrigin        Origin
	DefaultLoopType      LoopType
	DefaultParameterType ParameterType
	DefaultSampleVolume  int
}

// DefaultConfig mirrors the four fallbacks §7.4 names: Foreground,
// Centre, Additive, LoopForever; plus the Sample volume default of 100.
func DefaultConfig() Config {
	return Config{
		DefaultLayer:         Foreground,
		DefaultOrigin:        Centre,
		DefaultLoopType:      LoopForever,
		DefaultParameterType: Additive,
		DefaultSampleVolume:  100,
	}
}
