package search

import "chessplay/internal/board"

// killerTable holds two killer-move slots per remaining depth: quiet
// moves that caused a beta cutoff at that depth in a sibling branch,
// tried early next time the same depth is searched.
type killerTable struct {
	moves [maxDepth + 1][2]board.Move
}

func (k *killerTable) update(depth int, m board.Move) {
	if k.moves[depth][0] == m {
		return
	}
	if k.moves[depth][1] == m {
		k.moves[depth][1] = k.moves[depth][0]
		k.moves[depth][0] = m
		return
	}
	k.moves[depth][1] = k.moves[depth][0]
	k.moves[depth][0] = m
}

func (k *killerTable) isKiller(depth int, m board.Move) bool {
	return k.moves[depth][0] == m || k.moves[depth][1] == m
}

func (k *killerTable) clear() {
	for i := range k.moves {
		k.moves[i][0] = board.NoMove
		k.moves[i][1] = board.NoMove
	}
}
