package model

import "fmt"

// Settings holds board geometry, pricing and solver configuration.
type Settings struct {
	// Solver settings
	Strategy        Strategy `json:"strategy"`         // Strategy used by Optimize
	ExhaustiveLimit int      `json:"exhaustive_limit"` // Max pieces for exact strategies
	MaxPieces       int      `json:"max_pieces"`       // Max pieces accepted by the HTTP API

	// Board geometry in units
	BoardWidth  int `json:"board_width"`
	BoardLength int `json:"board_length"`
	Margin      int `json:"margin"` // Inset where nothing may be placed

	// Pricing
	BoardCost Cost `json:"board_cost"` // Fixed cost per board used
	CutRate   Cost `json:"cut_rate"`   // Cost per unit of piece perimeter

	// GCode settings
	GCode GCodeSettings `json:"gcode"`
}

// GCodeSettings configures perimeter toolpath output.
type GCodeSettings struct {
	FeedRate   float64 `json:"feed_rate"`   // mm/min
	PlungeRate float64 `json:"plunge_rate"` // mm/min
	SafeZ      float64 `json:"safe_z"`      // mm
	CutDepth   float64 `json:"cut_depth"`   // mm, total material thickness
	PassDepth  float64 `json:"pass_depth"`  // mm per pass
	Spindle    int     `json:"spindle"`     // RPM
	Profile    string  `json:"profile"`     // Post-processor name
}

func DefaultSettings() Settings {
	return Settings{
		Strategy:        StrategyBranchAndBound,
		ExhaustiveLimit: 8,
		MaxPieces:       64,
		BoardWidth:      300,
		BoardLength:     300,
		Margin:          10,
		BoardCost:       Cents(1000),
		CutRate:         Cents(0.01),
		GCode: GCodeSettings{
			FeedRate:   1500.0,
			PlungeRate: 500.0,
			SafeZ:      5.0,
			CutDepth:   18.0,
			PassDepth:  6.0,
			Spindle:    18000,
			Profile:    "Generic",
		},
	}
}

// UsableWidth is the board width minus both margins.
func (s Settings) UsableWidth() int {
	return s.BoardWidth - 2*s.Margin
}

// UsableLength is the board length minus both margins.
func (s Settings) UsableLength() int {
	return s.BoardLength - 2*s.Margin
}

// CutCost returns the cutting cost of a piece.
func (s Settings) CutCost(p Piece) Cost {
	return Cost(p.Perimeter()) * s.CutRate
}

// Validate checks that the settings describe a usable board.
func (s Settings) Validate() error {
	if s.BoardWidth <= 0 || s.BoardLength <= 0 {
		return fmt.Errorf("board dimensions must be positive, got %dx%d", s.BoardWidth, s.BoardLength)
	}
	if s.Margin < 0 || s.UsableWidth() <= 0 || s.UsableLength() <= 0 {
		return fmt.Errorf("margin %d leaves no usable area on a %dx%d board", s.Margin, s.BoardWidth, s.BoardLength)
	}
	if s.BoardCost < 0 || s.CutRate < 0 {
		return fmt.Errorf("costs must not be negative")
	}
	return nil
}

// CheckPiece verifies that a piece has positive dimensions and fits the
// usable interior of an empty board.
func (s Settings) CheckPiece(p Piece) error {
	if p.Height <= 0 || p.Width <= 0 {
		return fmt.Errorf("%w: %s has dimensions %dx%d", ErrInvalidPiece, p, p.Height, p.Width)
	}
	if p.Width > s.UsableWidth() || p.Height > s.UsableLength() {
		return fmt.Errorf("%w: %s is %dx%d, usable area is %dx%d",
			ErrPieceTooLarge, p, p.Height, p.Width, s.UsableLength(), s.UsableWidth())
	}
	return nil
}

// CheckPieces runs CheckPiece on every piece and returns the first error.
func (s Settings) CheckPieces(pieces []Piece) error {
	for _, p := range pieces {
		if err := s.CheckPiece(p); err != nil {
			return err
		}
	}
	return nil
}
