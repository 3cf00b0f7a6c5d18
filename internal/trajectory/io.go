package trajectory

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

func Write(w io.Writer, pts []Point) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(pts)
}

func WriteFile(path string, pts []Point) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := Write(bw, pts); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func Read(r io.Reader) ([]Point, error) {
	var pts []Point
	if err := json.NewDecoder(r).Decode(&pts); err != nil {
		return nil, err
	}
	return pts, nil
}

func ReadFile(path string) ([]Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pts, err := Read(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return pts, nil
}

// WriteCSV writes a time,x,y,z table with full-precision decimal strings.
func WriteCSV(w io.Writer, pts []Point) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "x", "y", "z"}); err != nil {
		return err
	}
	for _, p := range pts {
		if err := cw.Write([]string{p.Time.String(), p.X.String(), p.Y.String(), p.Z.String()}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
