package score

import (
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// FS abstracts the benchmark result files so tests can substitute them.
type FS interface {
	ReadFile(name string) ([]byte, error)
}

// OSFS reads result files from the operating system.
type OSFS struct{}

// ReadFile implements FS.
func (OSFS) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }

var (
	reWallClockSeconds = regexp.MustCompile(`^Wall-clock time \(sec\): ([0-9.]+)`)
	reUserCPUSeconds   = regexp.MustCompile(`^User-CPU time \(sec\): ([0-9.]+)`)
	reWirelength       = regexp.MustCompile(`Wirelength: ([0-9.]+)`)
)

// RouteResult reads the routing-check verdict: true iff the file's first
// line is PASS. A missing file counts as a failed check.
func RouteResult(fsys FS, checkFile string) bool {
	data, err := fsys.ReadFile(checkFile)
	if err != nil {
		return false
	}
	line, _, _ := strings.Cut(string(data), "\n")
	return strings.TrimRight(line, "\r") == "PASS"
}

// RuntimeResults reads the wall-clock and user-CPU runtimes from the last
// two lines of a benchmark log. Either value is +Inf when unavailable.
func RuntimeResults(fsys FS, physLogFile string) (wall, user float64) {
	wall, user = math.Inf(1), math.Inf(1)
	data, err := fsys.ReadFile(physLogFile)
	if err != nil {
		return wall, user
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) < 2 {
		return wall, user
	}
	if m := reWallClockSeconds.FindStringSubmatch(lines[len(lines)-2]); m != nil {
		wall, _ = strconv.ParseFloat(m[1], 64)
		if m := reUserCPUSeconds.FindStringSubmatch(lines[len(lines)-1]); m != nil {
			user, _ = strconv.ParseFloat(m[1], 64)
		}
	}
	return wall, user
}

// WirelengthResult reads the critical-path wirelength reported by the
// analyzer, or +Inf when unavailable.
func WirelengthResult(fsys FS, wirelengthFile string) float64 {
	data, err := fsys.ReadFile(wirelengthFile)
	if err != nil {
		return math.Inf(1)
	}
	for _, line := range strings.Split(string(data), "\n") {
		if m := reWirelength.FindStringSubmatch(line); m != nil {
			v, err := strconv.ParseFloat(m[1], 64)
			if err == nil {
				return v
			}
		}
	}
	return math.Inf(1)
}

// Result collects everything scored for one benchmark.
type Result struct {
	Benchmark string
	Pass      bool
	UserCPU   float64
	WallClock float64
	CPW       float64
	Score     float64
}

// Compute reads the .check, .phys.log and .wirelength files of every
// benchmark prefix and scores them. Missing files surface as +Inf
// sentinels, never as errors.
func Compute(fsys FS, prefixes []string) []Result {
	results := make([]Result, 0, len(prefixes))
	for _, prefix := range prefixes {
		check := RouteResult(fsys, prefix+".check")
		wall, user := RuntimeResults(fsys, prefix+".phys.log")
		cpw := WirelengthResult(fsys, prefix+".wirelength")
		results = append(results, Result{
			Benchmark: prefix,
			Pass:      check,
			UserCPU:   user,
			WallClock: wall,
			CPW:       cpw,
			Score:     Benchmark(check, wall, cpw),
		})
	}
	return results
}
