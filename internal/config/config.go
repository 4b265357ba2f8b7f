package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/mushaftools/ayamark/internal/mushaf"
	"github.com/mushaftools/ayamark/internal/pipeline"
)

// Config is the full ayamark configuration, loaded from an optional TOML
// file and overridable through AYAMARK_* environment variables.
type Config struct {
	Paths     PathsConfig     `toml:"paths"`
	Detection DetectionConfig `toml:"detection"`
	Fetch     FetchConfig     `toml:"fetch"`
	Log       LogConfig       `toml:"log"`
}

// PathsConfig names the inputs and outputs of a generation run.
type PathsConfig struct {
	// ImagesDir holds the page scans, one JPEG per page.
	ImagesDir string `toml:"images_dir"`

	// OpeningTemplate and StandardTemplate are the marker template images
	// for the two page layouts.
	OpeningTemplate  string `toml:"opening_template"`
	StandardTemplate string `toml:"standard_template"`

	// PageVerses is the page-to-verses mapping JSON file.
	PageVerses string `toml:"page_verses"`

	// MarkerCSV and SegmentCSV are the two output files.
	MarkerCSV  string `toml:"marker_csv"`
	SegmentCSV string `toml:"segment_csv"`

	// AnnotateDir, when set, receives annotated page copies for visual
	// verification of a run.
	AnnotateDir string `toml:"annotate_dir"`
}

// DetectionConfig mirrors pipeline.Options in TOML form.
type DetectionConfig struct {
	SweepStart         float64 `toml:"sweep_start"`
	SweepEnd           float64 `toml:"sweep_end"`
	SweepStep          float64 `toml:"sweep_step"`
	HoughVotes         []int   `toml:"hough_votes"`
	HoughMinDist       float64 `toml:"hough_min_dist"`
	HoughEdgeThreshold float64 `toml:"hough_edge_threshold"`
	HoughMinRadius     int     `toml:"hough_min_radius"`
	HoughMaxRadius     int     `toml:"hough_max_radius"`
	HoughBlurRadius    float64 `toml:"hough_blur_radius"`
	TopMargin          int     `toml:"top_margin"`
	BottomMargin       int     `toml:"bottom_margin"`
}

// FetchConfig controls the page-verse mapping download.
type FetchConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns the configuration the published data set was
// generated with.
func NewDefaultConfig() *Config {
	opts := pipeline.DefaultOptions()
	return &Config{
		Paths: PathsConfig{
			ImagesDir:        "images",
			OpeningTemplate:  "template_page_1_2.png",
			StandardTemplate: "template.png",
			PageVerses:       "page_verses.json",
			MarkerCSV:        "data.csv",
			SegmentCSV:       "data_verse.csv",
		},
		Detection: DetectionConfig{
			SweepStart:         opts.SweepStart,
			SweepEnd:           opts.SweepEnd,
			SweepStep:          opts.SweepStep,
			HoughVotes:         opts.HoughVotes,
			HoughMinDist:       opts.HoughMinDist,
			HoughEdgeThreshold: opts.HoughEdgeThreshold,
			HoughMinRadius:     opts.HoughMinRadius,
			HoughMaxRadius:     opts.HoughMaxRadius,
			HoughBlurRadius:    opts.HoughBlurRadius,
			TopMargin:          opts.TopMargin,
			BottomMargin:       opts.BottomMargin,
		},
		Fetch: FetchConfig{
			BaseURL:        mushaf.DefaultLayoutBaseURL,
			TimeoutSeconds: 30,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfigFromFile reads a TOML config, falling back to defaults when the
// file does not exist. A .env file in the working directory and AYAMARK_*
// environment variables override file values.
func LoadConfigFromFile(path string) (*Config, error) {
	config := NewDefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, config); err != nil {
			return nil, fmt.Errorf("failed to decode TOML config: %w", err)
		}
	}

	_ = godotenv.Load() // optional .env, absence is fine
	config.applyEnv()

	return config, nil
}

// applyEnv overlays AYAMARK_* environment variables onto the config.
func (c *Config) applyEnv() {
	setString(&c.Paths.ImagesDir, "AYAMARK_IMAGES_DIR")
	setString(&c.Paths.OpeningTemplate, "AYAMARK_OPENING_TEMPLATE")
	setString(&c.Paths.StandardTemplate, "AYAMARK_STANDARD_TEMPLATE")
	setString(&c.Paths.PageVerses, "AYAMARK_PAGE_VERSES")
	setString(&c.Paths.MarkerCSV, "AYAMARK_MARKER_CSV")
	setString(&c.Paths.SegmentCSV, "AYAMARK_SEGMENT_CSV")
	setString(&c.Paths.AnnotateDir, "AYAMARK_ANNOTATE_DIR")
	setString(&c.Fetch.BaseURL, "AYAMARK_FETCH_BASE_URL")
	setInt(&c.Fetch.TimeoutSeconds, "AYAMARK_FETCH_TIMEOUT")
	setString(&c.Log.Level, "AYAMARK_LOG_LEVEL")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Options converts the detection section to pipeline options.
func (c *Config) Options() pipeline.Options {
	return pipeline.Options{
		SweepStart:         c.Detection.SweepStart,
		SweepEnd:           c.Detection.SweepEnd,
		SweepStep:          c.Detection.SweepStep,
		HoughVotes:         c.Detection.HoughVotes,
		HoughMinDist:       c.Detection.HoughMinDist,
		HoughEdgeThreshold: c.Detection.HoughEdgeThreshold,
		HoughMinRadius:     c.Detection.HoughMinRadius,
		HoughMaxRadius:     c.Detection.HoughMaxRadius,
		HoughBlurRadius:    c.Detection.HoughBlurRadius,
		TopMargin:          c.Detection.TopMargin,
		BottomMargin:       c.Detection.BottomMargin,
	}
}

// FetchTimeout returns the fetch timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}
