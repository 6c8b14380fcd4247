// Package replay feeds recorded person detections through posture tracker.
//
// Input is CSV with ';' separator and header:
//
//	timestamp;track_id;x1;y1;x2;y2;confidence
//
// Output is CSV with header:
//
//	timestamp;track_id;status;color
package replay

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"github.com/LdDl/posture-go/posture"
)

const (
	// DefaultMinConfidence is person detection confidence gate used by the detector
	DefaultMinConfidence = 0.5
)

var inputColumns = []string{"timestamp", "track_id", "x1", "y1", "x2", "y2", "confidence"}

// Detection is single person detection with already assigned track ID
type Detection struct {
	Timestamp  float64
	TrackID    string
	BBox       posture.BBox
	Confidence float64
}

// Record is labelled detection
type Record struct {
	Timestamp float64
	TrackID   string
	BBox      posture.BBox
	Status    posture.Status
}

// Options of replay run
type Options struct {
	// Detections with confidence not greater than this value are skipped
	MinConfidence float64
	// Tracks unseen for longer than this many seconds are evicted. Zero disables eviction
	MaxAge float64
}

// DefaultOptions returns options matching the live pipeline
func DefaultOptions() Options {
	return Options{
		MinConfidence: DefaultMinConfidence,
		MaxAge:        0,
	}
}

// ReadDetections parses detections CSV. Column order is taken from the header
func ReadDetections(r io.Reader) ([]Detection, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "Can't read header")
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}
	for _, name := range inputColumns {
		if _, ok := columns[name]; !ok {
			return nil, errors.Errorf("missing column %q", name)
		}
	}

	detections := make([]Detection, 0)
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.Wrapf(err, "Can't read line %d", line)
		}
		values := make(map[string]float64, len(inputColumns))
		for _, name := range inputColumns {
			if name == "track_id" {
				continue
			}
			value, err := strconv.ParseFloat(row[columns[name]], 64)
			if err != nil {
				return nil, errors.Wrapf(err, "Can't parse column %q on line %d", name, line)
			}
			values[name] = value
		}
		trackID := row[columns["track_id"]]
		if trackID == "" {
			return nil, errors.Errorf("empty track_id on line %d", line)
		}
		detections = append(detections, Detection{
			Timestamp:  values["timestamp"],
			TrackID:    trackID,
			BBox:       posture.NewBBox(values["x1"], values["y1"], values["x2"], values["y2"]),
			Confidence: values["confidence"],
		})
	}
	return detections, nil
}

// Run feeds detections to the tracker in timestamp order (stable for equal timestamps)
// and returns labelled records for accepted detections.
func Run(tracker *posture.Tracker[string], detections []Detection, options Options) []Record {
	ordered := make([]Detection, 0, len(detections))
	for _, detection := range detections {
		if detection.Confidence > options.MinConfidence {
			ordered = append(ordered, detection)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp < ordered[j].Timestamp
	})

	records := make([]Record, 0, len(ordered))
	for i, detection := range ordered {
		// Eviction runs once per frame, before the frame is processed
		if options.MaxAge > 0 && (i == 0 || ordered[i-1].Timestamp != detection.Timestamp) {
			tracker.EvictStale(detection.Timestamp, options.MaxAge)
		}
		status := tracker.Process(detection.TrackID, detection.BBox, detection.Timestamp)
		records = append(records, Record{
			Timestamp: detection.Timestamp,
			TrackID:   detection.TrackID,
			BBox:      detection.BBox,
			Status:    status,
		})
	}
	return records
}

// WriteRecords writes records as CSV
func WriteRecords(w io.Writer, records []Record) error {
	writer := csv.NewWriter(w)
	writer.Comma = ';'
	err := writer.Write([]string{"timestamp", "track_id", "status", "color"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	for _, record := range records {
		c := record.Status.Color()
		err = writer.Write([]string{
			strconv.FormatFloat(record.Timestamp, 'f', -1, 64),
			record.TrackID,
			record.Status.String(),
			fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write record")
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "Can't flush records")
}
