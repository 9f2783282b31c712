// Package store writes analysis reports as Parquet files. Reports are
// write-only: nothing here reads a game back into play.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/brensch/othello/executor/sequences"
	"github.com/brensch/othello/game"
)

const (
	SequenceSchema = "sequence_row_v1"
	TurnSchema     = "turn_row_v1"
)

// SequenceRow is one enumerated line of play.
//
// Line uses the display notation, e.g. "B(2,3) -> W(2,2)". Score is the
// material score (Black minus White) where the line ends.
type SequenceRow struct {
	ReportID  string `parquet:"report_id,dict"`
	Rank      int32  `parquet:"rank"`
	Depth     int32  `parquet:"depth"`
	Side      string `parquet:"side,dict"`
	Score     int32  `parquet:"score"`
	Plies     int32  `parquet:"plies"`
	FirstMove string `parquet:"first_move,dict"`
	Line      string `parquet:"line"`
}

// TurnRow is a single ply of a self-play game. Passes have Row = Col = -1.
// Board is the diagram after the ply.
type TurnRow struct {
	GameID string `parquet:"game_id,dict"`
	Ply    int32  `parquet:"ply"`
	Color  string `parquet:"color,dict"`
	Row    int32  `parquet:"row"`
	Col    int32  `parquet:"col"`
	Pass   bool   `parquet:"pass"`
	Black  int32  `parquet:"black"`
	White  int32  `parquet:"white"`
	Score  int32  `parquet:"score"`
	Nodes  int64  `parquet:"nodes"`
	Board  string `parquet:"board,zstd"`
	Source string `parquet:"source,dict"`
}

// SequenceRows flattens an enumeration of root into rows, keeping its order.
func SequenceRows(reportID string, root *game.Board, depth int, seqs []sequences.Sequence) []SequenceRow {
	rows := make([]SequenceRow, len(seqs))
	for i, seq := range seqs {
		parts := make([]string, len(seq.Moves))
		for j, m := range seq.Moves {
			parts[j] = m.String()
		}
		first := ""
		if len(parts) > 0 {
			first = parts[0]
		}
		rows[i] = SequenceRow{
			ReportID:  reportID,
			Rank:      int32(i + 1),
			Depth:     int32(depth),
			Side:      root.Side.String(),
			Score:     int32(seq.Score),
			Plies:     int32(len(seq.Moves)),
			FirstMove: first,
			Line:      strings.Join(parts, " -> "),
		}
	}
	return rows
}

// WriteSequencesParquet writes a sequence report into outDir and returns the
// final file path.
func WriteSequencesParquet(outDir string, rows []SequenceRow) (string, error) {
	return writeBatchParquetAtomic(outDir, "sequences", SequenceSchema, rows)
}

// WriteTurnsParquet writes a batch of self-play plies into outDir.
func WriteTurnsParquet(outDir string, rows []TurnRow) (string, error) {
	return writeBatchParquetAtomic(outDir, "games", TurnSchema, rows)
}

// writeBatchParquetAtomic writes a Parquet file into outDir/tmp and then
// atomically moves it into outDir, so readers never observe partial files.
func writeBatchParquetAtomic[T any](outDir, prefix, schema string, rows []T) (string, error) {
	if len(rows) == 0 {
		return "", fmt.Errorf("no rows to write")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	tmpDir := filepath.Join(outDir, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return "", fmt.Errorf("create tmp dir: %w", err)
	}

	name := fmt.Sprintf("%s_%d.parquet", prefix, time.Now().UnixNano())
	finalPath := filepath.Join(outDir, name)
	tmpPath := filepath.Join(tmpDir, name+".tmp")
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", schema),
	); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("rename parquet: %w", err)
	}

	return finalPath, nil
}
