package probe

import (
	"context"
	"regexp"
	"strconv"
)

// Display geometry is resolved through its own nested fallback chain: the
// geometry tool's connected-output lines first, then the EDID decoder, then
// the raw EDID block. Each parser applies the same first-match-wins
// discipline as the outer field chains.

var (
	connectedSizeRe = regexp.MustCompile(`(?m)^\S+ connected.*?([0-9]+)mm x ([0-9]+)mm`)
	connectedModeRe = regexp.MustCompile(`(?m)^\S+ connected (?:primary )?([0-9]+x[0-9]+)\+`)
	currentModeRe   = regexp.MustCompile(`(?m)^\s+([0-9]+x[0-9]+)\s+[0-9.]+\s*\*`)
	edidImageSizeRe = regexp.MustCompile(`Maximum image size:\s*([0-9]+) cm x ([0-9]+) cm`)
)

// screenSizeFromXrandr derives the diagonal from the first connected output
// reporting physical dimensions.
func screenSizeFromXrandr(ctx context.Context, src *Source) (string, string) {
	out := src.RunTool(ctx, "xrandr", "--query")
	if out == "" {
		return "", ""
	}
	m := connectedSizeRe.FindStringSubmatch(out)
	if m == nil {
		return "", ""
	}
	width, _ := strconv.Atoi(m[1])
	height, _ := strconv.Atoi(m[2])
	return formatDiagonal(width, height)
}

// screenSizeFromEDIDDecode asks the EDID decoder for the maximum image size
// of the first output exposing an EDID block.
func screenSizeFromEDIDDecode(ctx context.Context, src *Source) (string, string) {
	path := firstEDIDPath(src)
	if path == "" {
		return "", ""
	}
	out := src.RunTool(ctx, "edid-decode", path)
	if out == "" {
		return "", ""
	}
	m := edidImageSizeRe.FindStringSubmatch(out)
	if m == nil {
		return "", ""
	}
	widthCM, _ := strconv.Atoi(m[1])
	heightCM, _ := strconv.Atoi(m[2])
	return formatDiagonal(widthCM*10, heightCM*10)
}

// screenSizeFromEDID falls back to the raw EDID block: bytes 21 and 22 carry
// the image size in centimeters.
func screenSizeFromEDID(ctx context.Context, src *Source) (string, string) {
	path := firstEDIDPath(src)
	if path == "" {
		return "", ""
	}
	edid, err := src.FS.ReadFile(path)
	if err != nil || len(edid) < 23 {
		return "", ""
	}
	return formatDiagonal(int(edid[21])*10, int(edid[22])*10)
}

func formatDiagonal(widthMM, heightMM int) (string, string) {
	inches, ok := DiagonalInches(widthMM, heightMM)
	if !ok {
		return "", ""
	}
	return strconv.FormatFloat(inches, 'f', 1, 64), UnitInches
}

// firstEDIDPath returns the first connector with a non-empty EDID block.
func firstEDIDPath(src *Source) string {
	matches, err := src.FS.Glob("/sys/class/drm/card*-*/edid")
	if err != nil {
		return ""
	}
	for _, path := range matches {
		if data, err := src.FS.ReadFile(path); err == nil && len(data) > 0 {
			return path
		}
	}
	return ""
}

// resolutionFromXrandr reads the active mode, preferring the starred line in
// the mode table over the geometry summary.
func resolutionFromXrandr(ctx context.Context, src *Source) (string, string) {
	out := src.RunTool(ctx, "xrandr", "--query")
	if out == "" {
		return "", ""
	}
	if m := currentModeRe.FindStringSubmatch(out); m != nil {
		return m[1], ""
	}
	if m := connectedModeRe.FindStringSubmatch(out); m != nil {
		return m[1], ""
	}
	return "", ""
}

// resolutionFromDRM reads the first advertised mode of the first connector
// that lists any.
func resolutionFromDRM(ctx context.Context, src *Source) (string, string) {
	matches, err := src.FS.Glob("/sys/class/drm/card*-*/modes")
	if err != nil {
		return "", ""
	}
	for _, path := range matches {
		if mode := src.ReadLine(path); mode != "" {
			return mode, ""
		}
	}
	return "", ""
}
