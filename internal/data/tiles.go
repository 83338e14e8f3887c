package data

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadTileCSV reads a width×height block of tile ids. Each non-empty line is
// one row of comma-separated values; lines starting with '#' are comments and
// blank cells are empty (0). Missing rows or columns are left empty.
func ReadTileCSV(r io.Reader, width, height int) ([]int, error) {
	tiles := make([]int, width*height)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	y := 0
	for scanner.Scan() && y < height {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		for x, tok := range strings.Split(line, ",") {
			if x >= width {
				break
			}
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			v, err := strconv.Atoi(tok)
			if err != nil || v < 0 {
				return nil, fmt.Errorf("row %d column %d: %q: %w", y, x, tok, ErrInvalidValue)
			}
			tiles[x+y*width] = v
		}
		y++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return tiles, nil
}

func loadTileFile(path string, width, height int) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tile data %s: %w", path, err)
	}
	defer f.Close()

	tiles, err := ReadTileCSV(f, width, height)
	if err != nil {
		return nil, fmt.Errorf("read tile data %s: %w", path, err)
	}
	return tiles, nil
}
