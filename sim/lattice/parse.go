package lattice

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Stats reports what Parse saw.
type Stats struct {
	Lines         int // lines read, one per site
	Edges         int // undirected edges (directed entries / 2)
	MaxDegree     int // largest neighbour count of any site
	SkippedTokens int // tokens that were not integers
}

// bracketStripper turns the list punctuation emitted by the generator into blanks.
var bracketStripper = strings.NewReplacer("[", " ", "]", " ", ",", " ")

// Parse reads one site per line. Brackets and commas are blanked out and the
// remaining whitespace-separated integer tokens become the neighbours of that
// site. Tokens that are not integers are skipped and counted in Stats.
func Parse(r io.Reader) (List, Stats, error) {
	var (
		adj   List
		stats Stats
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		stats.Lines++
		fields := strings.Fields(bracketStripper.Replace(scanner.Text()))
		nbrs := make([]int, 0, len(fields))
		for _, tok := range fields {
			v, err := strconv.Atoi(tok)
			if err != nil {
				stats.SkippedTokens++
				continue
			}
			nbrs = append(nbrs, v)
		}
		adj = append(adj, nbrs)
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, fmt.Errorf("reading adjacency list: %w", err)
	}
	stats.Edges = adj.EdgeCount()
	for i := range adj {
		stats.MaxDegree = max(stats.MaxDegree, adj.Degree(i))
	}
	if stats.SkippedTokens > 0 {
		logrus.Warnf("adjacency list: skipped %d non-integer token(s) across %d line(s)", stats.SkippedTokens, stats.Lines)
	}
	return adj, stats, nil
}

// Load opens path, parses it and validates the result. An absent or
// unreadable file wraps ErrMissingInput.
func Load(path string) (List, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("%w: %v", ErrMissingInput, err)
	}
	defer f.Close()

	adj, stats, err := Parse(f)
	if err != nil {
		return nil, stats, err
	}
	if err := adj.Validate(); err != nil {
		return nil, stats, err
	}
	logrus.Debugf("loaded adjacency list %s: %d sites, %d edges", path, adj.Len(), stats.Edges)
	return adj, stats, nil
}
