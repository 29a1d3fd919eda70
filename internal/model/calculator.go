package model

// Estimate holds an area-based lower bound for a piece list.
type Estimate struct {
	TotalPieceArea    int     `json:"total_piece_area"`    // Sum of piece areas
	TotalPerimeter    int     `json:"total_perimeter"`     // Sum of piece perimeters
	UsableArea        int     `json:"usable_area"`         // Usable area of one board
	BoardsNeededExact float64 `json:"boards_needed_exact"` // Fractional number of boards
	BoardsNeededMin   int     `json:"boards_needed_min"`   // Ceiling of exact, at least 1
	CuttingCost       Cost    `json:"cutting_cost"`        // Independent of the layout
	MinimumCost       Cost    `json:"minimum_cost"`        // No layout can cost less
}

// EstimateBoards computes how many boards the pieces need at least. The
// cutting cost is the same for every layout, so MinimumCost is a lower bound
// on the total cost of any strategy.
func EstimateBoards(pieces []Piece, s Settings) Estimate {
	est := Estimate{UsableArea: s.UsableWidth() * s.UsableLength()}
	for _, p := range pieces {
		est.TotalPieceArea += p.Area()
		est.TotalPerimeter += p.Perimeter()
		est.CuttingCost += s.CutCost(p)
	}

	if est.UsableArea <= 0 {
		return est
	}

	est.BoardsNeededExact = float64(est.TotalPieceArea) / float64(est.UsableArea)
	est.BoardsNeededMin = (est.TotalPieceArea + est.UsableArea - 1) / est.UsableArea
	if est.BoardsNeededMin < 1 {
		// The search always starts from one board.
		est.BoardsNeededMin = 1
	}
	est.MinimumCost = Cost(est.BoardsNeededMin)*s.BoardCost + est.CuttingCost
	return est
}
