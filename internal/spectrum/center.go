package spectrum

// Center rotates a DFT output in place so that the zero-frequency bin moves
// from index 0 to index len(buf)/2, negative frequencies first.
//
// For even lengths this is a swap of the two halves and is its own inverse.
// For odd lengths the halves differ in size, so the buffer is rotated right
// by len/2 instead. That still puts DC at len/2 with (len-1)/2 bins on each
// side, but it is not self-inverse; Uncenter undoes it. It also differs from
// a plain half swap: for N=5 the half swap gives [X2 X3 X0 X1 X4], leaving
// DC at index 2 but the highest positive bin X2 at the left edge, while
// Center gives [X3 X4 X0 X1 X2] with the negative bins X3 X4 on the left.
func Center(buf []complex128) {
	n := len(buf)
	half := n / 2
	if half == 0 {
		return
	}

	if n%2 == 0 {
		for i := range half {
			buf[i], buf[i+half] = buf[i+half], buf[i]
		}
		return
	}

	rotateRight(buf, half)
}

// Uncenter is the inverse of Center.
func Uncenter(buf []complex128) {
	n := len(buf)
	half := n / 2
	if half == 0 {
		return
	}

	if n%2 == 0 {
		Center(buf)
		return
	}

	rotateRight(buf, n-half)
}

// rotateRight rotates buf right by k positions using three reversals.
func rotateRight(buf []complex128, k int) {
	n := len(buf)
	reverse(buf)
	reverse(buf[:k])
	reverse(buf[k:n])
}

func reverse(buf []complex128) {
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
}
