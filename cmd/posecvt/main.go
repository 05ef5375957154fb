// Command posecvt converts camera pose files between 4x4 matrices and
// quaternions, validates them, plots trajectories and imports them into a
// SQLite pose store.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/posekit/internal/config"
	"github.com/banshee-data/posekit/internal/fsutil"
	"github.com/banshee-data/posekit/internal/pose"
	"github.com/banshee-data/posekit/internal/posedb"
	"github.com/banshee-data/posekit/internal/trajectory"
	"github.com/banshee-data/posekit/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// app carries the I/O used by every subcommand.
type app struct {
	fs     fsutil.FileSystem
	stdout io.Writer
	stderr io.Writer
}

func run(args []string, stdout, stderr io.Writer) int {
	a := &app{fs: fsutil.OSFileSystem{}, stdout: stdout, stderr: stderr}
	return a.run(args)
}

func (a *app) run(args []string) int {
	if len(args) < 1 {
		a.printUsage()
		return 2
	}

	var err error
	switch cmd, rest := args[0], args[1:]; cmd {
	case "quat":
		err = a.handleQuat(rest)
	case "matrix":
		err = a.handleMatrix(rest)
	case "validate":
		err = a.handleValidate(rest)
	case "plot":
		err = a.handlePlot(rest)
	case "import":
		err = a.handleImport(rest)
	case "list":
		err = a.handleList(rest)
	case "version":
		fmt.Fprintln(a.stdout, version.String())
	case "help", "-h", "--help":
		a.printUsage()
	default:
		fmt.Fprintf(a.stderr, "Unknown command: %s\n\n", cmd)
		a.printUsage()
		return 2
	}

	if err == flag.ErrHelp {
		return 0
	}
	if err != nil {
		fmt.Fprintf(a.stderr, "posecvt: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) printUsage() {
	fmt.Fprintln(a.stderr, `posecvt - camera pose conversion tool

Usage: posecvt <command> [options] <pose-file>

Commands:
  quat       Convert poses to "index tx ty tz q0 q1 q2 q3" lines
  matrix     Rewrite poses as 4x4 matrices after the axis flip
  validate   Report poses whose rotation or bottom row is invalid
  plot       Render the camera trajectory as PNG and/or HTML
  import     Store poses and quaternions in a SQLite database
  list       List sequences stored in a SQLite database
  version    Show posecvt version
  help       Show this help message

Pose files hold one row-major 4x4 camera-to-world matrix per line
(16 whitespace-separated numbers). By default the camera Y and Z axes are
negated on load; pass -no-flip to keep them.

Examples:
  posecvt quat -method robust -order xyzw poses.txt > quats.txt
  posecvt plot -png out/trajectory.png -html out/trajectory.html poses.txt
  posecvt import -db poses.db poses.txt`)
}

// commonFlags are shared by every command that loads a pose file.
type commonFlags struct {
	configPath string
	noFlip     bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "JSON conversion config (defaults apply when empty)")
	fs.BoolVar(&c.noFlip, "no-flip", false, "Keep camera axes as stored (skip the Y/Z negation)")
}

// loadConfig returns the conversion config, applying the default file when
// no path was given and it exists.
func (c *commonFlags) loadConfig(fsys fsutil.FileSystem) (*config.ConvertConfig, error) {
	path := c.configPath
	if path == "" {
		if !fsys.Exists(config.DefaultConfigPath) {
			return config.DefaultConvertConfig(), nil
		}
		path = config.DefaultConfigPath
	}
	return config.LoadConvertConfig(path)
}

// loadPoses reads the single positional pose file.
func (a *app) loadPoses(fs *flag.FlagSet, cfg *config.ConvertConfig, c *commonFlags) ([]pose.Matrix4, string, error) {
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, "", fmt.Errorf("%s: expected exactly one pose file, got %d", fs.Name(), fs.NArg())
	}
	path := fs.Arg(0)
	loader := pose.Loader{FS: a.fs, FlipAxes: cfg.GetFlipAxes() && !c.noFlip}
	poses, err := loader.Load(path)
	if err != nil {
		return nil, "", err
	}
	return poses, path, nil
}

// output opens path for writing, or returns stdout when path is empty or "-".
func (a *app) output(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{a.stdout}, nil
	}
	if err := a.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return a.fs.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// setFlags returns the names of flags given on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func (a *app) handleQuat(args []string) error {
	fs := a.newFlagSet("quat")
	var common commonFlags
	common.register(fs)
	method := fs.String("method", string(pose.MethodTrace), "Conversion method: trace or robust")
	order := fs.String("order", string(pose.OrderWXYZ), "Quaternion component order: wxyz or xyzw")
	normalize := fs.Bool("normalize", false, "Normalise each quaternion to unit length")
	out := fs.String("o", "", "Output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := common.loadConfig(a.fs)
	if err != nil {
		return err
	}
	opts := cfg.ExportOptions()
	set := setFlags(fs)
	if set["method"] {
		if opts.Method, err = pose.ParseMethod(*method); err != nil {
			return err
		}
	}
	if set["order"] {
		if opts.Order, err = pose.ParseQuaternionOrder(*order); err != nil {
			return err
		}
	}
	if set["normalize"] {
		opts.Normalize = *normalize
	}

	poses, _, err := a.loadPoses(fs, cfg, &common)
	if err != nil {
		return err
	}

	w, err := a.output(*out)
	if err != nil {
		return err
	}
	if err := pose.WriteQuaternions(w, poses, opts); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func (a *app) handleMatrix(args []string) error {
	fs := a.newFlagSet("matrix")
	var common commonFlags
	common.register(fs)
	out := fs.String("o", "", "Output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := common.loadConfig(a.fs)
	if err != nil {
		return err
	}
	poses, _, err := a.loadPoses(fs, cfg, &common)
	if err != nil {
		return err
	}

	w, err := a.output(*out)
	if err != nil {
		return err
	}
	if err := pose.WriteMatrices(w, poses); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func (a *app) handleValidate(args []string) error {
	fs := a.newFlagSet("validate")
	var common commonFlags
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := common.loadConfig(a.fs)
	if err != nil {
		return err
	}
	poses, path, err := a.loadPoses(fs, cfg, &common)
	if err != nil {
		return err
	}

	degenerate := 0
	for _, T := range poses {
		if pose.IsDegenerate(T.Rotation()) {
			degenerate++
		}
	}

	invalid := pose.ValidatePoses(poses)
	for _, r := range invalid {
		fmt.Fprintf(a.stdout, "pose %d: %s\n", r.Index, strings.Join(r.Issues, "; "))
	}
	fmt.Fprintf(a.stdout, "%s: %d poses, %d invalid, %d near 180 degrees (use -method robust)\n",
		path, len(poses), len(invalid), degenerate)

	if len(invalid) > 0 {
		return fmt.Errorf("%d invalid poses", len(invalid))
	}
	return nil
}

func (a *app) handlePlot(args []string) error {
	fs := a.newFlagSet("plot")
	var common commonFlags
	common.register(fs)
	pngPath := fs.String("png", "", "Write a top-down PNG plot to this path")
	htmlPath := fs.String("html", "", "Write an interactive 3D HTML chart to this path")
	plane := fs.String("plane", string(trajectory.PlaneXZ), "Ground plane for the PNG: xz or xy")
	title := fs.String("title", "", "Plot title (defaults to the pose file name)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *pngPath == "" && *htmlPath == "" {
		return fmt.Errorf("plot: at least one of -png or -html is required")
	}
	if p := trajectory.Plane(*plane); p != trajectory.PlaneXZ && p != trajectory.PlaneXY {
		return fmt.Errorf("plot: unknown plane %q (want xz or xy)", *plane)
	}

	cfg, err := common.loadConfig(a.fs)
	if err != nil {
		return err
	}
	poses, path, err := a.loadPoses(fs, cfg, &common)
	if err != nil {
		return err
	}
	if *title == "" {
		*title = filepath.Base(path)
	}

	if *pngPath != "" {
		p := trajectory.NewPlotter(a.fs)
		p.Title = *title
		p.Plane = trajectory.Plane(*plane)
		p.Width = vg.Length(cfg.GetPlotWidthInches()) * vg.Inch
		p.Height = vg.Length(cfg.GetPlotHeightInches()) * vg.Inch
		if err := p.WritePNG(*pngPath, poses); err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "wrote %s\n", *pngPath)
	}

	if *htmlPath != "" {
		w, err := a.output(*htmlPath)
		if err != nil {
			return err
		}
		if err := trajectory.RenderHTML(w, *title, poses); err != nil {
			w.Close()
			return err
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("close %s: %w", *htmlPath, err)
		}
		fmt.Fprintf(a.stdout, "wrote %s\n", *htmlPath)
	}
	return nil
}

func (a *app) handleImport(args []string) error {
	fs := a.newFlagSet("import")
	var common commonFlags
	common.register(fs)
	dbPath := fs.String("db", "poses.db", "Path to the SQLite pose database")
	method := fs.String("method", "", "Conversion method for stored quaternions (default from config)")
	desc := fs.String("desc", "", "Free-form description stored with the sequence")
	timeout := fs.Duration("timeout", 30*time.Second, "Maximum time for the import")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := common.loadConfig(a.fs)
	if err != nil {
		return err
	}
	m := cfg.GetMethod()
	if *method != "" {
		if m, err = pose.ParseMethod(*method); err != nil {
			return err
		}
	}

	poses, path, err := a.loadPoses(fs, cfg, &common)
	if err != nil {
		return err
	}

	db, err := posedb.Open(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	seq := &posedb.Sequence{
		SourcePath:  path,
		FlipAxes:    cfg.GetFlipAxes() && !common.noFlip,
		Method:      m,
		Description: *desc,
	}
	if err := posedb.NewPoseStore(db).InsertSequence(ctx, seq, poses); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%s\t%d poses\n", seq.SequenceID, seq.PoseCount)
	return nil
}

func (a *app) handleList(args []string) error {
	fs := a.newFlagSet("list")
	dbPath := fs.String("db", "poses.db", "Path to the SQLite pose database")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := posedb.Open(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	seqs, err := posedb.NewPoseStore(db).ListSequences(context.Background())
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQUENCE\tPOSES\tMETHOD\tCREATED\tSOURCE")
	for _, s := range seqs {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", s.SequenceID, s.PoseCount, s.Method,
			time.Unix(0, s.CreatedAtNs).UTC().Format(time.RFC3339), s.SourcePath)
	}
	return tw.Flush()
}
