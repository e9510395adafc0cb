// Package series computes the sum of the integers 1..n.
package series

// Iterative sums 1..n with a loop. Returns 0 for n <= 0.
func Iterative(n int) int {
	sum := 0
	for i := 1; i <= n; i++ {
		sum += i
	}
	return sum
}

// Formula sums 1..n with the arithmetic series formula n(n+1)/2. Returns 0 for n <= 0.
func Formula(n int) int {
	if n <= 0 {
		return 0
	}
	// Halve the even factor first so the product only overflows when the sum does.
	if n%2 == 0 {
		return (n / 2) * (n + 1)
	}
	return n * ((n + 1) / 2)
}

// Recursive sums 1..n recursively. Returns 0 for n <= 0.
// Recursion depth is n, so prefer Formula for large inputs.
func Recursive(n int) int {
	if n <= 0 {
		return 0
	}
	return n + Recursive(n-1)
}

// Method is a named way of computing the sum.
type Method struct {
	Name string
	Sum  func(n int) int
}

// Methods lists every implementation in a stable order.
func Methods() []Method {
	return []Method{
		{Name: "iterative", Sum: Iterative},
		{Name: "formula", Sum: Formula},
		{Name: "recursive", Sum: Recursive},
	}
}
