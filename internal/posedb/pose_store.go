package posedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/banshee-data/posekit/internal/monitoring"
	"github.com/banshee-data/posekit/internal/pose"
	"github.com/banshee-data/posekit/internal/timeutil"
)

// ErrSequenceNotFound is returned when no sequence has the requested ID.
var ErrSequenceNotFound = errors.New("pose sequence not found")

// Sequence describes one imported pose file.
type Sequence struct {
	SequenceID  string      `json:"sequence_id"`
	SourcePath  string      `json:"source_path"`
	PoseCount   int         `json:"pose_count"`
	FlipAxes    bool        `json:"flip_axes"`
	Method      pose.Method `json:"method"`
	Description string      `json:"description,omitempty"`
	CreatedAtNs int64       `json:"created_at_ns"`
}

// PoseStore provides persistence for pose sequences.
type PoseStore struct {
	db *sql.DB
	// Clock stamps CreatedAtNs on insert.
	Clock timeutil.Clock
}

// NewPoseStore creates a store over an open database.
func NewPoseStore(db *DB) *PoseStore {
	return &PoseStore{db: db.DB, Clock: timeutil.RealClock{}}
}

// matrixColumns lists m00..m33 in row-major order.
var matrixColumns = func() []string {
	cols := make([]string, 0, pose.FieldsPerPose)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			cols = append(cols, fmt.Sprintf("m%d%d", r, c))
		}
	}
	return cols
}()

var insertPoseQuery = fmt.Sprintf(
	`INSERT INTO camera_poses (sequence_id, pose_index, %s, qw, qx, qy, qz) VALUES (?, ?%s, ?, ?, ?, ?)`,
	strings.Join(matrixColumns, ", "),
	strings.Repeat(", ?", len(matrixColumns)),
)

// InsertSequence stores seq and its poses in one transaction, together
// with the quaternion of each pose computed with seq.Method. A missing
// SequenceID is generated and CreatedAtNs defaults to now. Poses with
// non-finite entries are rejected.
func (s *PoseStore) InsertSequence(ctx context.Context, seq *Sequence, poses []pose.Matrix4) error {
	for i, T := range poses {
		for _, v := range T {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("insert pose %d: non-finite matrix entry", i)
			}
		}
	}

	if seq.SequenceID == "" {
		seq.SequenceID = uuid.New().String()
	}
	if seq.CreatedAtNs == 0 {
		seq.CreatedAtNs = s.Clock.Now().UnixNano()
	}
	if seq.Method == "" {
		seq.Method = pose.MethodTrace
	}
	seq.PoseCount = len(poses)

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			monitoring.Logf("warning: failed to rollback transaction: %v", err)
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO pose_sequences (
			sequence_id, source_path, pose_count, flip_axes, method, description, created_at_ns
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		seq.SequenceID, seq.SourcePath, seq.PoseCount, seq.FlipAxes, string(seq.Method),
		nullString(seq.Description), seq.CreatedAtNs,
	)
	if err != nil {
		return fmt.Errorf("insert sequence: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertPoseQuery)
	if err != nil {
		return fmt.Errorf("prepare pose insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, 0, 2+pose.FieldsPerPose+4)
	for i, T := range poses {
		q := pose.Convert(T.Rotation(), seq.Method)
		args = append(args[:0], seq.SequenceID, i)
		for _, v := range T {
			args = append(args, v)
		}
		for _, v := range pose.ScalarFirst(q) {
			args = append(args, nullFloat(v))
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert pose %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit sequence: %w", err)
	}
	monitoring.Logf("posedb: stored sequence %s (%d poses, method=%s)", seq.SequenceID, seq.PoseCount, seq.Method)
	return nil
}

// GetSequence retrieves a sequence by ID.
func (s *PoseStore) GetSequence(ctx context.Context, sequenceID string) (*Sequence, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT sequence_id, source_path, pose_count, flip_axes, method, description, created_at_ns
		FROM pose_sequences WHERE sequence_id = ?`, sequenceID)

	seq, err := scanSequence(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSequenceNotFound, sequenceID)
	}
	if err != nil {
		return nil, fmt.Errorf("get sequence: %w", err)
	}
	return seq, nil
}

// ListSequences returns all sequences, newest first.
func (s *PoseStore) ListSequences(ctx context.Context) ([]*Sequence, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sequence_id, source_path, pose_count, flip_axes, method, description, created_at_ns
		FROM pose_sequences ORDER BY created_at_ns DESC, sequence_id`)
	if err != nil {
		return nil, fmt.Errorf("list sequences: %w", err)
	}
	defer rows.Close()

	var seqs []*Sequence
	for rows.Next() {
		seq, err := scanSequence(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sequence: %w", err)
		}
		seqs = append(seqs, seq)
	}
	return seqs, rows.Err()
}

// LoadPoses returns the stored matrices of a sequence in index order.
func (s *PoseStore) LoadPoses(ctx context.Context, sequenceID string) ([]pose.Matrix4, error) {
	if _, err := s.GetSequence(ctx, sequenceID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT %s FROM camera_poses WHERE sequence_id = ? ORDER BY pose_index`,
		strings.Join(matrixColumns, ", ")), sequenceID)
	if err != nil {
		return nil, fmt.Errorf("load poses: %w", err)
	}
	defer rows.Close()

	var poses []pose.Matrix4
	for rows.Next() {
		var T pose.Matrix4
		dest := make([]any, len(T))
		for i := range T {
			dest[i] = &T[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan pose: %w", err)
		}
		poses = append(poses, T)
	}
	return poses, rows.Err()
}

// LoadQuaternions returns the stored quaternions of a sequence in index
// order. Components that were not finite when stored read back as NaN.
func (s *PoseStore) LoadQuaternions(ctx context.Context, sequenceID string) ([]pose.Quaternion, error) {
	if _, err := s.GetSequence(ctx, sequenceID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT qw, qx, qy, qz FROM camera_poses
		WHERE sequence_id = ? ORDER BY pose_index`, sequenceID)
	if err != nil {
		return nil, fmt.Errorf("load quaternions: %w", err)
	}
	defer rows.Close()

	var quats []pose.Quaternion
	for rows.Next() {
		var w, x, y, z sql.NullFloat64
		if err := rows.Scan(&w, &x, &y, &z); err != nil {
			return nil, fmt.Errorf("scan quaternion: %w", err)
		}
		quats = append(quats, pose.Quaternion{
			Real: orNaN(w),
			Imag: orNaN(x),
			Jmag: orNaN(y),
			Kmag: orNaN(z),
		})
	}
	return quats, rows.Err()
}

// DeleteSequence removes a sequence and its poses.
func (s *PoseStore) DeleteSequence(ctx context.Context, sequenceID string) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			monitoring.Logf("warning: failed to rollback transaction: %v", err)
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM camera_poses WHERE sequence_id = ?`, sequenceID); err != nil {
		return fmt.Errorf("delete poses: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM pose_sequences WHERE sequence_id = ?`, sequenceID)
	if err != nil {
		return fmt.Errorf("delete sequence: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete sequence: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrSequenceNotFound, sequenceID)
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSequence(row rowScanner) (*Sequence, error) {
	var (
		seq    Sequence
		method string
		desc   sql.NullString
	)
	if err := row.Scan(&seq.SequenceID, &seq.SourcePath, &seq.PoseCount, &seq.FlipAxes,
		&method, &desc, &seq.CreatedAtNs); err != nil {
		return nil, err
	}
	seq.Method = pose.Method(method)
	seq.Description = desc.String
	return &seq, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullFloat maps non-finite values to NULL; SQLite has no NaN.
func nullFloat(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: !math.IsNaN(v) && !math.IsInf(v, 0)}
}

func orNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
