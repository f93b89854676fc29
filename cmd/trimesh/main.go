package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/logrusorgru/aurora"
	imgcat "github.com/martinlindhe/imgcat/lib"
	"github.com/osuushi/triangulateio"
	"github.com/osuushi/triangulateio/alloc"
	"github.com/pkg/errors"
	"gopkg.in/alecthomas/kingpin.v2"
)

// Triangulates a mesh and reports on it. Input is a YAML mesh description
// (points, markers, segments, segment_markers, holes, regions,
// point_attributes), or, on stdin or with --polygons, newline separated
// points in the form "x y" with each polygon separated by an extra newline.
var (
	app = kingpin.New("trimesh", "Triangulate a planar mesh.")

	inputPath = app.Arg("input", "Mesh file; stdin when omitted.").String()
	polygons  = app.Flag("polygons", "Read the plain polygon format even from a file.").Bool()
	mode      = app.Flag("mode", "Triangle switches.").Short('m').Default(triangulateio.DefaultMode).String()
	area      = app.Flag("area", "Maximum triangle area, 0 for none.").Short('a').Float64()
	refine    = app.Flag("refine", "Refinement passes after the initial triangulation.").Short('r').Int()
	ratio     = app.Flag("ratio", "Area reduction per refinement pass.").Default("2").Float64()
	pngPath   = app.Flag("png", "Write a picture of the final level.").String()
	scale     = app.Flag("scale", "Pixels per unit in the picture.").Default("100").Float64()
	showImage = app.Flag("imgcat", "Show the picture in the terminal.").Bool()
	dump      = app.Flag("dump", "Dump the final level's records.").Bool()
	track     = app.Flag("track", "Count buffer allocations and report leaks.").Bool()
	verbose   = app.Flag("verbose", "Debug logging.").Short('v').Bool()
	noColor   = app.Flag("no-color", "Plain output.").Bool()
)

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))
	au := aurora.NewAurora(!*noColor)

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	input, err := readInput()
	app.FatalIfError(err, "reading input")

	opts := []triangulateio.Option{triangulateio.WithLogger(logger)}
	var tracker *alloc.Tracker
	if *track {
		tracker = alloc.NewTracker()
		opts = append(opts, triangulateio.WithAllocator(tracker))
	}
	session := triangulateio.New(opts...)

	app.FatalIfError(input.apply(session), "loading input")
	app.FatalIfError(session.Triangulate(*area, *mode), "triangulating")
	for i := 0; i < *refine; i++ {
		app.FatalIfError(session.Refine(*ratio), "refining")
	}

	app.FatalIfError(report(os.Stdout, au, session), "reading back")
	if *dump {
		app.FatalIfError(dumpLevel(os.Stdout, session), "dumping")
	}
	if *pngPath != "" || *showImage {
		app.FatalIfError(plot(session), "drawing")
	}

	session.Close()
	if tracker != nil {
		fmt.Printf("%s %d allocations, %d frees, %d live (%d bytes)\n",
			au.Bold("memory:"), tracker.Allocs(), tracker.Frees(), tracker.Live(), tracker.LiveBytes())
		if tracker.Live() > 0 {
			fmt.Println(au.Red("leaked:"), strings.Join(tracker.LiveLabels(), ", "))
			os.Exit(1)
		}
	}
}

func readInput() (*meshInput, error) {
	if *inputPath == "" {
		return readPolygons(os.Stdin)
	}
	f, err := os.Open(*inputPath)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	if *polygons {
		return readPolygons(f)
	}
	switch strings.ToLower(filepath.Ext(*inputPath)) {
	case ".yaml", ".yml":
		return readYAML(f)
	}
	return readPolygons(f)
}

// report prints one line per level.
func report(w io.Writer, au aurora.Aurora, session *triangulateio.Triangle) error {
	for level := 0; level < session.Levels(); level++ {
		points, err := session.NumPoints(level)
		if err != nil {
			return err
		}
		triangles, err := session.NumTriangles(level)
		if err != nil {
			return err
		}
		edges, err := session.Edges(level)
		if err != nil {
			return err
		}
		name := fmt.Sprintf("level %d", level)
		if level == 0 {
			name = "input"
		}
		fmt.Fprintf(w, "%-8s %s points, %s triangles, %s edges\n",
			au.Bold(name), au.Cyan(points), au.Green(triangles), au.Yellow(len(edges)))
	}
	return nil
}

func dumpLevel(w io.Writer, session *triangulateio.Triangle) error {
	points, err := session.Points(-1)
	if err != nil {
		return err
	}
	triangles, err := session.Triangles(-1)
	if err != nil {
		return err
	}
	edges, err := session.Edges(-1)
	if err != nil {
		return err
	}
	spew.Fdump(w, points, triangles, edges)
	return nil
}

func plot(session *triangulateio.Triangle) error {
	path := *pngPath
	if path == "" {
		path = filepath.Join(os.TempDir(), "trimesh.png")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := session.PlotMesh(f, -1, *scale); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.WithStack(err)
	}
	if *showImage {
		imgcat.CatFile(path, os.Stdout)
	}
	return nil
}
