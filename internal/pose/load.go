package pose

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/banshee-data/posekit/internal/fsutil"
	"github.com/banshee-data/posekit/internal/monitoring"
)

// FieldsPerPose is the number of values on each pose line.
const FieldsPerPose = 16

var (
	// ErrFieldCount is returned when a line does not hold exactly 16 values.
	ErrFieldCount = errors.New("pose line must hold 16 values")
	// ErrBadNumber is returned when a value cannot be parsed as a float.
	ErrBadNumber = errors.New("pose value is not a number")
)

// ParseError describes the first malformed line of a pose file.
type ParseError struct {
	Path   string // empty when parsing a stream
	Line   int    // 1-based
	Fields int    // number of whitespace-separated values found
	Err    error
}

func (e *ParseError) Error() string {
	where := fmt.Sprintf("line %d", e.Line)
	if e.Path != "" {
		where = e.Path + ":" + strconv.Itoa(e.Line)
	}
	return fmt.Sprintf("parse pose %s: %v", where, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Loader reads pose files through a FileSystem.
type Loader struct {
	FS fsutil.FileSystem
	// FlipAxes negates the camera Y and Z axes of every pose.
	FlipAxes bool
}

// DefaultLoader reads from the OS filesystem and flips axes.
var DefaultLoader = Loader{FS: fsutil.OSFileSystem{}, FlipAxes: true}

// LoadPoses reads camera-to-world poses from path, one row-major 4x4
// matrix per line, and negates columns 1 and 2 of each rotation block.
// The first malformed line aborts the load and no poses are returned.
func LoadPoses(path string) ([]Matrix4, error) {
	return DefaultLoader.Load(path)
}

// Load reads all poses from path.
func (l Loader) Load(path string) ([]Matrix4, error) {
	fsys := l.FS
	if fsys == nil {
		fsys = fsutil.OSFileSystem{}
	}

	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pose file: %w", err)
	}
	defer f.Close()

	poses, err := ParsePoses(f, l.FlipAxes)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}

	monitoring.Logf("pose: loaded %d poses from %s", len(poses), path)
	return poses, nil
}

// ParsePoses reads poses from r. Whitespace-only lines are skipped.
func ParsePoses(r io.Reader, flip bool) ([]Matrix4, error) {
	var poses []Matrix4

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		m, err := parseLine(fields)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Fields: len(fields), Err: err}
		}
		if flip {
			m = m.FlipYZ()
		}
		poses = append(poses, m)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read pose file: %w", err)
	}

	return poses, nil
}

// ParseMatrix parses a single 16-value line without flipping.
func ParseMatrix(line string) (Matrix4, error) {
	fields := strings.Fields(line)
	m, err := parseLine(fields)
	if err != nil {
		return Matrix4{}, &ParseError{Line: 1, Fields: len(fields), Err: err}
	}
	return m, nil
}

func parseLine(fields []string) (Matrix4, error) {
	var m Matrix4
	if len(fields) != FieldsPerPose {
		return m, fmt.Errorf("%w, got %d", ErrFieldCount, len(fields))
	}
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return m, fmt.Errorf("%w: field %d %q", ErrBadNumber, i+1, s)
		}
		m[i] = v
	}
	return m, nil
}
