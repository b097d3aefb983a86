package board

// promotionKinds lists the pieces a pawn may promote to, queen first since it is almost
// always the best choice and move ordering benefits from trying it first.
var promotionKinds = [4]Kind{KindQueen, KindRook, KindBishop, KindKnight}

// GenerateLegalMoves returns every legal move available to the side to move. It
// generates pseudo-legal moves and filters out any that leave the mover's own king in
// check, using make/unmake rather than a separate pin/check analysis: simpler to get
// right, and the search already pays for Advance/Revert on every node it visits anyway.
func GenerateLegalMoves(p *Position) []Move {
	return GenerateLegalMovesInto(p, nil)
}

// GenerateLegalMovesInto is GenerateLegalMoves but generates pseudo-legal moves into
// scratch (reused across calls, see MoveBuffer) and filters in place.
func GenerateLegalMovesInto(p *Position, scratch []Move) []Move {
	pseudo := GeneratePseudoLegalMovesInto(p, scratch)

	mover := p.Side
	legal := pseudo[:0]
	for _, m := range pseudo {
		old := p.Advance(m)
		if !p.IsChecked(mover) {
			legal = append(legal, m)
		}
		p.Revert(m, old)
	}
	return legal
}

// GeneratePseudoLegalMoves returns every move available to the side to move without
// checking whether it leaves that side's own king in check. Castling is the one
// exception: a castle through or out of check is illegal by rule (not merely "leaves
// the king in check" after the fact), so its legality is checked here directly.
func GeneratePseudoLegalMoves(p *Position) []Move {
	return GeneratePseudoLegalMovesInto(p, nil)
}

// GeneratePseudoLegalMovesInto is GeneratePseudoLegalMoves but appends into dst, so a
// caller iterating many positions at the same search depth (see MoveBuffer) can reuse
// one slice's backing array instead of allocating on every node.
func GeneratePseudoLegalMovesInto(p *Position, dst []Move) []Move {
	side := p.Side
	opp := side.Opponent()
	own := p.Planes.ColorPieces(side)
	enemy := p.Planes.ColorPieces(opp)
	occupied := p.Planes.Occupied()

	moves := dst[:0]

	for _, k := range [...]Kind{KindKnight, KindBishop, KindRook, KindQueen} {
		pieces := p.Planes.SquaresOf(MakeCode(k, side))
		for pieces != 0 {
			var from Square
			from, pieces = pieces.PopLSB()
			moves = appendTargets(moves, p, from, Attackboard(k, from, occupied)&^own, k)
		}
	}

	kingSq := p.KingSquare(side)
	moves = appendTargets(moves, p, kingSq, KingAttackboard(kingSq)&^own, KindKing)
	moves = appendCastles(moves, p, side, kingSq)

	moves = appendPawnMoves(moves, p, side, occupied, enemy)

	return moves
}

func appendTargets(moves []Move, p *Position, from Square, targets Bitboard, k Kind) []Move {
	moverCode := MakeCode(k, p.Side)
	for targets != 0 {
		var to Square
		to, targets = targets.PopLSB()
		moves = append(moves, Move{
			Kind:         MoveNormal,
			From:         from,
			To:           to,
			MoverCode:    moverCode,
			CapturedCode: p.Planes.At(to),
		})
	}
	return moves
}

func appendPawnMoves(moves []Move, p *Position, side Color, occupied, enemy Bitboard) []Move {
	pawnCode := MakeCode(KindPawn, side)
	pawns := p.Planes.SquaresOf(pawnCode)

	homeRank, preRank := Rank2, Rank7
	if side == Black {
		homeRank, preRank = Rank7, Rank2
	}

	for pawns != 0 {
		var from Square
		from, pawns = pawns.PopLSB()
		src := BitMask(from)
		promoting := from.Rank() == preRank

		if push1 := PawnMoveboard(occupied, side, src); push1 != 0 {
			to, _ := push1.PopLSB()
			if promoting {
				moves = appendPromotions(moves, from, to, pawnCode, CodeEmpty)
			} else {
				moves = append(moves, Move{Kind: MoveNormal, From: from, To: to, MoverCode: pawnCode, CapturedCode: CodeEmpty})
				if from.Rank() == homeRank {
					if push2 := PawnMoveboard(occupied, side, push1); push2 != 0 {
						to2, _ := push2.PopLSB()
						moves = append(moves, Move{Kind: MoveNormal, From: from, To: to2, MoverCode: pawnCode, CapturedCode: CodeEmpty})
					}
				}
			}
		}

		captures := PawnCaptureboard(side, src) & enemy
		for captures != 0 {
			var to Square
			to, captures = captures.PopLSB()
			captured := p.Planes.At(to)
			if promoting {
				moves = appendPromotions(moves, from, to, pawnCode, captured)
			} else {
				moves = append(moves, Move{Kind: MoveNormal, From: from, To: to, MoverCode: pawnCode, CapturedCode: captured})
			}
		}
	}

	if epFile, ok := p.Meta.HasEnPassant(); ok {
		fromRank, toRank := Rank5, Rank6
		if side == Black {
			fromRank, toRank = Rank4, Rank3
		}
		to := NewSquare(epFile, toRank)
		for _, df := range [2]int{-1, 1} {
			f := int(epFile) + df
			if f < 0 || f > int(FileH) {
				continue
			}
			from := NewSquare(File(f), fromRank)
			if p.Planes.At(from) == pawnCode {
				moves = append(moves, Move{
					Kind:       MoveEnPassant,
					From:       from,
					To:         to,
					FromColumn: uint8(f),
					ToColumn:   uint8(epFile),
				})
			}
		}
	}

	return moves
}

func appendPromotions(moves []Move, from, to Square, pawnCode, capturedCode Code) []Move {
	color := pawnCode.Color()
	for _, k := range promotionKinds {
		moves = append(moves, Move{
			Kind:         MovePromotion,
			From:         from,
			To:           to,
			MoverCode:    pawnCode,
			CapturedCode: capturedCode,
			PromotedCode: MakeCode(k, color),
		})
	}
	return moves
}

func appendCastles(moves []Move, p *Position, side Color, kingSq Square) []Move {
	rank := Rank1
	if side == Black {
		rank = Rank8
	}
	if canCastle(p, side, true) {
		moves = append(moves, Move{Kind: MoveCastle, From: kingSq, To: NewSquare(FileG, rank), Short: true})
	}
	if canCastle(p, side, false) {
		moves = append(moves, Move{Kind: MoveCastle, From: kingSq, To: NewSquare(FileC, rank), Short: false})
	}
	return moves
}

// canCastle checks castling rights, that the squares between king and rook are empty,
// and that the king does not start, pass through, or end up on an attacked square.
func canCastle(p *Position, side Color, short bool) bool {
	rights := p.Meta.Castling()
	rank := Rank1
	if side == Black {
		rank = Rank8
	}

	var right Castling
	var between, kingPath []Square
	if short {
		if side == White {
			right = WhiteKingSideCastle
		} else {
			right = BlackKingSideCastle
		}
		between = []Square{NewSquare(FileF, rank), NewSquare(FileG, rank)}
		kingPath = []Square{NewSquare(FileE, rank), NewSquare(FileF, rank), NewSquare(FileG, rank)}
	} else {
		if side == White {
			right = WhiteQueenSideCastle
		} else {
			right = BlackQueenSideCastle
		}
		between = []Square{NewSquare(FileB, rank), NewSquare(FileC, rank), NewSquare(FileD, rank)}
		kingPath = []Square{NewSquare(FileE, rank), NewSquare(FileD, rank), NewSquare(FileC, rank)}
	}

	if !rights.IsAllowed(right) {
		return false
	}

	occupied := p.Planes.Occupied()
	for _, sq := range between {
		if occupied.Has(sq) {
			return false
		}
	}
	for _, sq := range kingPath {
		if p.IsAttacked(side, sq) {
			return false
		}
	}
	return true
}
