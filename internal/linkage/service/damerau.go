package service

// damerauLevenshtein — optimal string alignment distance over runes:
// insert / delete / substitute plus transposition of adjacent runes.
func damerauLevenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	al, bl := len(ra), len(rb)
	if al == 0 {
		return bl
	}
	if bl == 0 {
		return al
	}

	// три строки матрицы вместо полной: i-2, i-1, i
	prev2 := make([]int, bl+1)
	prev := make([]int, bl+1)
	curr := make([]int, bl+1)
	for j := 0; j <= bl; j++ {
		prev[j] = j
	}

	for i := 1; i <= al; i++ {
		curr[0] = i
		for j := 1; j <= bl; j++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)

			// транспозиция соседних символов
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				if v := prev2[j-2] + 1; v < curr[j] {
					curr[j] = v
				}
			}
		}
		prev2, prev, curr = prev, curr, prev2
	}
	return prev[bl]
}
