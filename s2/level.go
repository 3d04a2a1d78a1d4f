package s2

/*
https://s2geometry.io/resources/s2cell_statistics.html

level  min area     max area     average area  units
...
12     3.04         6.38         5.07          km2    about 2 km on an edge
13     0.76         1.59         1.27          km2    about a kilometer (square)
14     0.19         0.40         0.32          km2
15     47520.30     99638.93     79172.67      m2
16     11880.08     24909.73     19793.17      m2     100m-180m; throwing distance
17     2970.02      6227.43      4948.29       m2
18     742.50       1556.86      1237.07       m2
...
*/

// CellLevel represents the S2 cell level, from 0-30.
type CellLevel int

const (
	// CellLevel13 is about a 1/2 section.
	CellLevel13 CellLevel = 13

	// CellLevel16 is approximately 140m on an edge, or an area of about 5 acres.
	CellLevel16 CellLevel = 16

	// CellLevel18 is about 100ft on a side, and has an area of about 1/4 acre.
	CellLevel18 CellLevel = 18

	CellLevelMax CellLevel = 30
)

func (l CellLevel) Valid() bool {
	return l >= 0 && l <= CellLevelMax
}
