package engine

// switches is the part of a Triangle-style switch string this engine acts
// on. Switches for quality and area refinement, Steiner point limits and file
// output are accepted and ignored, since this engine never inserts vertices.
type switches struct {
	zeroBased         bool // z
	poly              bool // p
	convex            bool // c
	refine            bool // r
	neighbors         bool // n
	edges             bool // e
	voronoi           bool // v
	regionAttributes  bool // A
	noBoundaryMarkers bool // B
	noHoles           bool // O
	quiet             bool // Q
	verbose           bool // V
	order             int  // o2 gives 2
}

// parseSwitches reads a switch string the way Triangle does: one letter per
// switch, with numeric arguments directly after q, a, S and o. A
// leading dash is allowed. Unknown letters are ignored.
func parseSwitches(s string) switches {
	sw := switches{order: 1}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'z':
			sw.zeroBased = true
		case 'p':
			sw.poly = true
		case 'c':
			sw.convex = true
		case 'r':
			sw.refine = true
		case 'n':
			sw.neighbors = true
		case 'e':
			sw.edges = true
		case 'v':
			sw.voronoi = true
		case 'A':
			sw.regionAttributes = true
		case 'B':
			sw.noBoundaryMarkers = true
		case 'O':
			sw.noHoles = true
		case 'Q':
			sw.quiet = true
		case 'V':
			sw.verbose = true
		case 'o':
			if i+1 < len(s) && s[i+1] == '2' {
				sw.order = 2
				i++
			}
		case 'q', 'a', 'S':
			i = skipNumber(s, i)
		}
	}
	return sw
}

// skipNumber returns the index of the last digit or dot after position i.
func skipNumber(s string, i int) int {
	for i+1 < len(s) && (s[i+1] == '.' || (s[i+1] >= '0' && s[i+1] <= '9')) {
		i++
	}
	return i
}
