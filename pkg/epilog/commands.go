package epilog

// PJL job control.
const (
	pjlHeader = "\x1b%%-12345X@PJL JOB NAME=%s\r\n\x1bE@PJL ENTER LANGUAGE=PCL \r\n"
	pjlFooter = "\x1b%-12345X@PJL EOJ \r\n"
)

// PCL setup. The &y and &z blocks without a published meaning are emitted
// verbatim as the Fusion firmware expects them.
const (
	pclColorComponentOne = "\x1b*v%dA"
	pclFusionSetup       = "\x1b&y130001300003220S"
	pclDateStamp         = "\x1b&y" + DateStamp + "D"
	pclFusionFlags       = "\x1b&y0V\x1b&y0L\x1b&y0T\x1b&y0C\x1b&y0Z"
	pclFusionRaster      = "\x1b&z%dC"
	pclFusionRasterRes   = "\x1b&y%dR"
	pclAutofocus         = "\x1b&y%dA"
	pclOffsetX           = "\x1b&l%dU"
	pclOffsetY           = "\x1b&l%dZ"
	pclPrintResolution   = "\x1b&u%dD"
	pclResolution        = "\x1b*t%dR"
	pclCenterEngrave     = "\x1b&y%dZ"
	pclGlobalAirAssist   = "\x1b&y%dC"
	pclRasterAirAssist   = "\x1b&z%dA"
	pclPosX              = "\x1b*p%dX"
	pclPosY              = "\x1b*p%dY"
	pclReset             = "\x1bE"
)

// PCL raster.
const (
	rOrientation   = "\x1b*r%dF"
	rPower         = "\x1b&y%dP"
	rSpeed         = "\x1b&z%dS"
	rBedHeight     = "\x1b*r%dT"
	rBedWidth      = "\x1b*r%dS"
	rCompression   = "\x1b*b%dM"
	rDirection     = "\x1b&y%dO"
	rStart         = "\x1b*r1A"
	rEnd           = "\x1b*rC"
	rRowUnpacked   = "\x1b*b%dA"
	rRowPacked     = "\x1b*b%dW"
	compressionTIF = 2
)

// HPGL vector.
const (
	hpglStart    = "\x1b%1B"
	hpglEnd      = "\x1b%0B"
	vInit        = "IN"
	vPower       = "YP%03d"
	vSpeed       = "ZS%03d"
	vUnknown1    = "XS0"
	vUnknown2    = "XP1"
	hpglLineType = "LT"
	hpglPenUp    = "PU"
	hpglPenDown  = "PD"
	sep          = ";"
)

// Fixed header values.
const (
	headerRasterPower = 50
	headerRasterSpeed = 50
	autofocusOff      = -1
	autofocusOn       = 1
)
