package prism

const (
	SceneMinX        = -400.0
	SceneMinY        = -300.0
	SceneMaxX        = 400.0
	SceneMaxY        = 300.0
	Step             = 0.5     // world units per advance
	MinStep          = 1e-3    // smaller steps are rejected (excessive iteration)
	MaxSteps         = 200_000 // hard cap on advances per trace, independent of crossings
	WavelengthMin    = 400.0   // nm
	WavelengthMax    = 680.0   // nm
	WavelengthStep   = 10.0    // nm
	MaxWavelengths   = 4096    // samples per spectrum
	AirIndex         = 1.0
	PNGOut           = "prism.png"
	ImageWidth       = 1200
	ImageHeight      = 900
	LineWidth        = 1.5
	CrossingsPerObj  = 2 // one refraction-in and one refraction-out per element
	ElementSize      = 160.0
	SlabWidthRatio   = 0.5 // slab width as a fraction of its height
	MirrorWidthRatio = 0.1
	RecordDir        = "records"
	GIFOut           = "prism.gif"
	GIFFrames        = 36
	GIFDelay         = 8 // 100ths of a second
)
