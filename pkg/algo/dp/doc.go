// Package dp implements dynamic-programming algorithms: edit distance with
// unit costs and an item-count knapsack.
//
// # Edit distance
//
// The cost table has len(x)+1 rows and len(y)+1 columns. Row 0 and column 0
// hold cumulative unit costs (inserting the first j target symbols, deleting
// the first i source symbols). Every other cell is
//
//	cost[i][j] = min(cost[i-1][j-1] + mismatch(x[i-1], y[j-1]),
//	                 cost[i][j-1] + 1,   // insert y[j-1]
//	                 cost[i-1][j] + 1)   // delete x[i-1]
//
// A parent table records which of the three choices produced each cell
// (ties prefer match, then insert, then delete), so [Table.Path] can
// reconstruct one optimal edit script.
//
// [EditDistanceRecursive] and [EditDistanceMemo] compute the same value top
// down and are kept as teaching references for the table version.
package dp
