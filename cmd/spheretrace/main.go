// spheretrace renders scenes of spheres with a Monte Carlo path tracer.
//
// A single frame:
//
//	spheretrace -scene=bubble -spp=200 -output=bubble.png
//
// An orbiting animation, one file per frame:
//
//	spheretrace -frames=36 -orbit-degrees=10 -output=orbit-%03d.png
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"syscall"

	"spheretrace/camera"
	"spheretrace/config"
	"spheretrace/imageout"
	"spheretrace/render"
	"spheretrace/sampledb"
	"spheretrace/scene"

	"github.com/golang/glog"
)

var (
	configFile = flag.String("config", "", "YAML or JSON render config.  Flags set explicitly override it.")

	sceneName = flag.String("scene", "random-spheres", "Built-in scene to render")
	width     = flag.Int("width", 400, "Output image columns")
	height    = flag.Int("height", 225, "Output image rows")
	spp       = flag.Int("spp", 100, "Samples per pixel")
	maxDepth  = flag.Int("max-depth", 50, "Maximum number of bounces to consider")
	workers   = flag.Int("workers", 0, "Render workers; 0 means one per CPU")
	seed      = flag.Int64("seed", 1, "Seed for sampling")
	sceneSeed = flag.Int64("scene-seed", 1, "Seed for random scene generation")

	frames       = flag.Int("frames", 1, "Number of frames to render")
	orbitDegrees = flag.Float64("orbit-degrees", 0, "How far the camera orbits the look-at point between frames")

	output    = flag.String("output", "output.png", "Output image path or gs://bucket/object URL.  Use a verb like %03d for the frame number.")
	format    = flag.String("format", "", "Output image format, png or ppm.  Guessed from -output if empty.")
	rawOutput = flag.String("raw-output", "", "Optional sample DB path or gs:// URL, for resuming renders.  Use a verb like %03d for the frame number.")
	resume    = flag.Bool("resume", false, "Should we re-open the sample DB to add more samples?")

	monitoring           = flag.Bool("monitoring", false, "Enable monitoring?")
	monitoringProject    = flag.String("monitoring-project", "", "Override project used for monitoring integration.  If not specified, the project associated with Application Default Credentials is used.")
	monitoringTraceRatio = flag.Float64("monitoring-trace-ratio", 1, "What ratio of traces should be exported?")

	cpuprofile = flag.String("cpu-profile", "", "write cpu profile to `file`")
	memprofile = flag.String("mem-profile", "", "write memory profile to `file`")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	glog.CopyStandardLogTo("INFO")

	glog.Infof("flags:")
	flag.VisitAll(func(f *flag.Flag) {
		glog.Infof("%s: %q", f.Name, f.Value.String())
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			glog.Exitf("Could not create CPU profile: %v", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			glog.Exitf("Could not start CPU profile: %v", err)
		}
		defer pprof.StopCPUProfile()
	}

	if *monitoring {
		shutdown, err := setupMonitoring(ctx, *monitoringProject, *monitoringTraceRatio)
		if err != nil {
			glog.Exitf("Error: %v", err)
		}
		defer shutdown()
	}

	if err := do(ctx); err != nil {
		// Exitf skips deferred calls, so stop the profile by hand.
		pprof.StopCPUProfile()
		glog.Exitf("Error: %v", err)
	}

	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		if err != nil {
			glog.Exitf("Could not create memory profile: %v", err)
		}
		defer f.Close()
		if err := pprof.WriteHeapProfile(f); err != nil {
			glog.Exitf("Could not write memory profile: %v", err)
		}
	}
}

// explicitFlags returns the names of the flags set on the command line.
func explicitFlags() map[string]bool {
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

// loadConfig starts from the config file at path (or the defaults), then
// applies the flags named in explicit.
func loadConfig(path string, explicit map[string]bool) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	}

	for name := range explicit {
		switch name {
		case "scene":
			cfg.Scene = *sceneName
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "spp":
			cfg.SamplesPerPixel = *spp
		case "max-depth":
			cfg.MaxDepth = *maxDepth
		case "workers":
			cfg.Workers = *workers
		case "seed":
			cfg.Seed = *seed
		case "scene-seed":
			cfg.SceneSeed = *sceneSeed
		case "frames":
			cfg.Frames = *frames
		case "orbit-degrees":
			cfg.OrbitDegrees = *orbitDegrees
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func imageFormat() string {
	if *format != "" {
		return *format
	}
	if strings.HasSuffix(strings.ToLower(*output), ".ppm") {
		return "ppm"
	}
	return "png"
}

func do(ctx context.Context) error {
	cfg, err := loadConfig(*configFile, explicitFlags())
	if err != nil {
		return fmt.Errorf("while loading config: %w", err)
	}

	if cfg.Frames > 1 {
		if !imageout.HasFrameVerb(*output) {
			return fmt.Errorf("rendering %d frames, but -output has no frame number verb", cfg.Frames)
		}
		if *rawOutput != "" && !imageout.HasFrameVerb(*rawOutput) {
			return fmt.Errorf("rendering %d frames, but -raw-output has no frame number verb", cfg.Frames)
		}
	}
	if *resume && *rawOutput == "" {
		return fmt.Errorf("resumption requested, but no -raw-output to resume from")
	}

	sc, err := cfg.BuildScene()
	if err != nil {
		return fmt.Errorf("while building scene: %w", err)
	}
	camCfg, err := cfg.CameraConfig()
	if err != nil {
		return fmt.Errorf("while configuring camera: %w", err)
	}
	cam, err := camera.New(camCfg)
	if err != nil {
		return err
	}

	glog.Infof("Rendering %q (%d elements), %dx%d, %d spp, %d frame(s)", cfg.Scene, sc.Len(), cfg.Width, cfg.Height, cfg.SamplesPerPixel, cfg.Frames)

	orbitStep := cfg.OrbitDegrees * math.Pi / 180
	for i := 0; i < cfg.Frames; i++ {
		if i > 0 {
			eye := camera.Orbit(cam.Config().LookFrom, camCfg.LookAt, camCfg.Up, orbitStep)
			if err := cam.SetPosition(eye); err != nil {
				return fmt.Errorf("while moving camera for frame %d: %w", i, err)
			}
		}

		if err := renderFrame(ctx, cfg, sc, cam, i); err != nil {
			return fmt.Errorf("while rendering frame %d: %w", i, err)
		}
	}

	return nil
}

func renderFrame(ctx context.Context, cfg *config.Config, sc *scene.Scene, cam camera.Camera, i int) error {
	rawName := ""
	if *rawOutput != "" {
		rawName = imageout.FrameName(*rawOutput, i)
	}

	db, err := openSampleDB(ctx, rawName, cfg)
	if err != nil {
		return err
	}

	opts := cfg.RenderOptions()
	prog := newProgress(i, cfg.Frames)
	opts.Progress = prog.update

	st, err := render.RenderInto(ctx, sc, cam, opts, db)
	prog.finish()
	if err != nil {
		return err
	}
	glog.Infof("Frame %d: %d samples, %d rays (%d escaped, %d absorbed, %d out of depth) in %v",
		i, st.Samples, st.Counters.Rays, st.Counters.Escaped, st.Counters.Absorbed, st.Counters.Exhausted, st.Elapsed)

	if rawName != "" {
		err := imageout.WriteTo(ctx, rawName, func(w io.Writer) error {
			return sampledb.Write(db, w)
		})
		if err != nil {
			return fmt.Errorf("while writing sample DB: %w", err)
		}
	}

	outName := imageout.FrameName(*output, i)
	frame := render.FrameFromDB(db)
	err = imageout.WriteTo(ctx, outName, func(w io.Writer) error {
		return imageout.Encode(w, frame, imageFormat())
	})
	if err != nil {
		return fmt.Errorf("while writing image: %w", err)
	}
	glog.Infof("Wrote %s", outName)

	return nil
}

// openSampleDB loads the sample DB to resume from, or starts an empty one.
func openSampleDB(ctx context.Context, name string, cfg *config.Config) (*sampledb.DB, error) {
	if name == "" {
		return sampledb.New(cfg.Height, cfg.Width), nil
	}

	if !*resume {
		// Check that the sample DB doesn't exist, to avoid blowing away hours
		// of render time.
		r, err := imageout.Open(ctx, name)
		if err == nil {
			r.Close()
			return nil, fmt.Errorf("resumption not requested, but sample DB %s exists", name)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("while checking for existing sample DB: %w", err)
		}
		return sampledb.New(cfg.Height, cfg.Width), nil
	}

	r, err := imageout.Open(ctx, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("resumption requested, but sample DB %s doesn't exist", name)
		}
		return nil, fmt.Errorf("resumption requested, but encountered error opening existing sample DB: %w", err)
	}
	defer r.Close()

	db, err := sampledb.Read(r)
	if err != nil {
		return nil, fmt.Errorf("resumption requested, but encountered error loading existing sample DB: %w", err)
	}
	if db.Rows != cfg.Height {
		return nil, fmt.Errorf("resumption requested, but the existing sample DB doesn't have the right number of rows (got %d, want %d)", db.Rows, cfg.Height)
	}
	if db.Cols != cfg.Width {
		return nil, fmt.Errorf("resumption requested, but the existing sample DB doesn't have the right number of columns (got %d, want %d)", db.Cols, cfg.Width)
	}
	glog.Infof("Resuming %s with %d existing samples", name, db.TotalSamples())
	return db, nil
}
