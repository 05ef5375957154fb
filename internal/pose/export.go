package pose

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/banshee-data/posekit/internal/monitoring"
)

// QuaternionOrder selects the component order of exported quaternions.
type QuaternionOrder string

const (
	// OrderWXYZ writes the scalar first.
	OrderWXYZ QuaternionOrder = "wxyz"
	// OrderXYZW writes the scalar last.
	OrderXYZW QuaternionOrder = "xyzw"
)

// ParseQuaternionOrder validates an order name.
func ParseQuaternionOrder(s string) (QuaternionOrder, error) {
	switch o := QuaternionOrder(s); o {
	case OrderWXYZ, OrderXYZW:
		return o, nil
	default:
		return "", fmt.Errorf("unknown quaternion order %q (want %q or %q)", s, OrderWXYZ, OrderXYZW)
	}
}

// ExportOptions controls WriteQuaternions.
type ExportOptions struct {
	Method    Method
	Normalize bool
	Order     QuaternionOrder
}

// Components returns q in the configured order.
func (o ExportOptions) Components(q Quaternion) [4]float64 {
	if o.Order == OrderXYZW {
		return ScalarLast(q)
	}
	return ScalarFirst(q)
}

// Quaternion converts the rotation block of T with the configured method.
func (o ExportOptions) Quaternion(T Matrix4) Quaternion {
	q := Convert(T.Rotation(), o.Method)
	if o.Normalize {
		q = Normalize(q)
	}
	return q
}

// WriteQuaternions writes one line per pose:
//
//	index tx ty tz q0 q1 q2 q3
//
// with the quaternion in the configured order.
func WriteQuaternions(w io.Writer, poses []Matrix4, opts ExportOptions) error {
	bw := bufio.NewWriter(w)
	for i, T := range poses {
		if opts.Method != MethodRobust && IsDegenerate(T.Rotation()) {
			monitoring.Logf("pose %d: rotation near 180 degrees, trace method output is unreliable", i)
		}
		t := T.Translation()
		c := opts.Components(opts.Quaternion(T))
		if _, err := fmt.Fprintf(bw, "%d %s\n", i, formatFloats(t.X, t.Y, t.Z, c[0], c[1], c[2], c[3])); err != nil {
			return fmt.Errorf("write pose %d: %w", i, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush quaternions: %w", err)
	}
	return nil
}

// FormatMatrix formats T as one line of 16 values, the pose file format.
func FormatMatrix(T Matrix4) string {
	return formatFloats(T[:]...)
}

// WriteMatrices writes poses in the pose file format.
func WriteMatrices(w io.Writer, poses []Matrix4) error {
	bw := bufio.NewWriter(w)
	for i, T := range poses {
		if _, err := io.WriteString(bw, FormatMatrix(T)+"\n"); err != nil {
			return fmt.Errorf("write pose %d: %w", i, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush matrices: %w", err)
	}
	return nil
}

func formatFloats(vals ...float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(v, 'g', 9, 64)
	}
	return strings.Join(parts, " ")
}
