package options

// LensOptions are the command line options of the lens viewers. Fields are
// pointers so they can be bound directly to the flag package.
type LensOptions struct {
	Image      *string
	Brush      *string
	ConfigFile *string
	Help       *bool
	Width      *int
	Height     *int
	Inset      *float64 // mount inset from the window edges, in window units
	PageScale  *float64 // page height in window heights; > 1 enables scrolling
	Watch      *bool
	Mode       *string // "window", "record" or "snapshot"
	Duration   *float64
	FPS        *int
	OutputFile *string
	FFMPEGPath *string
	Codec      *string
	UseCache   *bool
	SnapshotAt *float64 // seconds of animation before the snapshot
}

// Default returns options populated with the default values, for callers
// that do not parse flags.
func Default() *LensOptions {
	image := ""
	brush := ""
	configFile := ""
	help := false
	width, height := 1280, 720
	inset, pageScale := 48.0, 2.0
	watch := false
	mode := "window"
	duration := 10.0
	fps := 60
	output := "lens.mp4"
	ffmpegPath := ""
	codec := "h264"
	useCache := true
	snapshotAt := 1.0
	return &LensOptions{
		Image:      &image,
		Brush:      &brush,
		ConfigFile: &configFile,
		Help:       &help,
		Width:      &width,
		Height:     &height,
		Inset:      &inset,
		PageScale:  &pageScale,
		Watch:      &watch,
		Mode:       &mode,
		Duration:   &duration,
		FPS:        &fps,
		OutputFile: &output,
		FFMPEGPath: &ffmpegPath,
		Codec:      &codec,
		UseCache:   &useCache,
		SnapshotAt: &snapshotAt,
	}
}
