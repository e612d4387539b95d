package detect

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/filesift/filesift/internal/model"
)

// extensionClass groups extensions that share a label and base confidence.
type extensionClass struct {
	label      string
	extensions []string
	confidence float64
}

// extensionClasses is the static extension table. It is read-only after
// process start.
var extensionClasses = []extensionClass{
	{label: "documents", confidence: 0.85, extensions: []string{
		".pdf", ".doc", ".docx", ".txt", ".rtf", ".odt", ".tex", ".md", ".rst",
	}},
	{label: "spreadsheets", confidence: 0.85, extensions: []string{
		".xlsx", ".xls", ".csv", ".tsv", ".ods",
	}},
	{label: "code", confidence: 0.90, extensions: []string{
		".py", ".js", ".html", ".css", ".java", ".cpp", ".c", ".h", ".jsx",
		".ts", ".tsx", ".go", ".rs", ".rb", ".php", ".swift", ".kt", ".scala",
		".r", ".m", ".sh", ".bat", ".ps1", ".yaml", ".yml", ".toml",
	}},
	{label: "data", confidence: 0.85, extensions: []string{
		".json", ".xml", ".db", ".sql", ".parquet", ".feather", ".hdf", ".h5",
		".mat", ".npy", ".pkl",
	}},
	{label: "images", confidence: 0.90, extensions: []string{
		".jpg", ".png", ".gif", ".bmp", ".svg", ".ico", ".tiff", ".webp",
		".raw", ".psd", ".ai",
	}},
	{label: "videos", confidence: 0.90, extensions: []string{
		".mp4", ".avi", ".mov", ".wmv", ".flv", ".mkv", ".webm", ".m4v",
		".mpg", ".mpeg",
	}},
	{label: "audio", confidence: 0.90, extensions: []string{
		".mp3", ".wav", ".flac", ".aac", ".ogg", ".wma", ".m4a", ".opus", ".aiff",
	}},
	{label: "archives", confidence: 0.95, extensions: []string{
		".zip", ".tar", ".gz", ".rar", ".7z", ".bz2", ".xz",
	}},
	{label: "executables", confidence: 0.85, extensions: []string{
		".exe", ".msi", ".app", ".deb", ".rpm", ".dmg", ".pkg", ".appimage", ".snap",
	}},
	{label: "configs", confidence: 0.75, extensions: []string{
		".ini", ".cfg", ".conf", ".config", ".env", ".properties", ".plist",
	}},
	{label: "logs", confidence: 0.70, extensions: []string{
		".log", ".out", ".err",
	}},
}

// extensionAliases folds equivalent extensions onto their canonical form
// before table lookup.
var extensionAliases = map[string]string{
	".jpeg":     ".jpg",
	".htm":      ".html",
	".tif":      ".tiff",
	".mpg4":     ".mp4",
	".markdown": ".md",
}

// compoundArchiveSuffixes are multi-part extensions the plain suffix
// lookup would miss.
var compoundArchiveSuffixes = []string{".tar.gz", ".tar.bz2", ".tar.xz"}

// extensionLookup is built once from extensionClasses.
var extensionLookup = func() map[string]extensionClass {
	m := make(map[string]extensionClass)
	for _, class := range extensionClasses {
		for _, ext := range class.extensions {
			m[ext] = class
		}
	}
	return m
}()

// ExtensionDetector classifies by normalized file extension.
type ExtensionDetector struct {
	base
}

// NewExtensionDetector creates an extension detector with the given
// per-pass confidence offset.
func NewExtensionDetector(boost float64) *ExtensionDetector {
	return &ExtensionDetector{base{boost: boost}}
}

// Name returns the detection method identifier.
func (d *ExtensionDetector) Name() model.DetectionMethod { return model.MethodExtension }

// Score maps the file extension to a label and confidence. Unknown
// extensions yield a very low confidence "misc" signal so that the
// residual policy can flag them; extensionless files yield no signal.
func (d *ExtensionDetector) Score(path string) *model.Signal {
	name := strings.ToLower(filepath.Base(path))

	for _, suffix := range compoundArchiveSuffixes {
		if strings.HasSuffix(name, suffix) {
			return &model.Signal{
				Label:      "archives",
				Confidence: d.adjust(0.95),
				Method:     model.MethodExtension,
				Why:        fmt.Sprintf("matched archive extension %s", suffix),
			}
		}
	}

	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return nil
	}
	if canonical, ok := extensionAliases[ext]; ok {
		ext = canonical
	}

	if class, ok := extensionLookup[ext]; ok {
		return &model.Signal{
			Label:      class.label,
			Confidence: d.adjust(class.confidence),
			Method:     model.MethodExtension,
			Why:        fmt.Sprintf("matched %s extension", ext),
		}
	}

	return &model.Signal{
		Label:      "misc",
		Confidence: d.adjust(0.25),
		Method:     model.MethodExtension,
		Why:        fmt.Sprintf("unknown extension %s", ext),
	}
}
