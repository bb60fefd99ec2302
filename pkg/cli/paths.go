package cli

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Input files keep their layout relative to each other in the output
// directory, so the deepest directory containing all of them maps to the
// output directory itself
func lowestCommonAncestorDirectory(absPaths []string) string {
	if len(absPaths) == 0 {
		return ""
	}

	lowestAbsDir := filepath.Dir(absPaths[0])

	for _, absPath := range absPaths[1:] {
		absDir := filepath.Dir(absPath)
		lastSlash := 0
		a := 0
		b := 0

		for {
			runeA, widthA := utf8.DecodeRuneInString(absDir[a:])
			runeB, widthB := utf8.DecodeRuneInString(lowestAbsDir[b:])
			boundaryA := widthA == 0 || runeA == '/' || runeA == '\\'
			boundaryB := widthB == 0 || runeB == '/' || runeB == '\\'

			if boundaryA && boundaryB {
				if widthA == 0 || widthB == 0 {
					// Truncate to the smaller path if one path is a prefix of the other
					lowestAbsDir = absDir[:a]
					break
				} else {
					lastSlash = a
				}
			} else if boundaryA != boundaryB || unicode.ToLower(runeA) != unicode.ToLower(runeB) {
				// Compare case-insensitively to handle paths on Windows
				lowestAbsDir = absDir[:lastSlash]
				break
			}

			a += widthA
			b += widthB
		}
	}

	return lowestAbsDir
}

// "src/a/b.ts" with base "src" and extension ".js" becomes "<outdir>/a/b.js"
func outputPath(outdir string, baseAbsDir string, absPath string, outExtension string) string {
	rel, err := filepath.Rel(baseAbsDir, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(absPath)
	}
	if ext := filepath.Ext(rel); ext != "" {
		rel = rel[:len(rel)-len(ext)]
	}
	return filepath.Join(outdir, rel+outExtension)
}
