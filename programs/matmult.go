package programs

import (
	"github.com/jnwhiteh/userkernel/loader"
)

const matDim = 20

// MatMult multiplies two matrices, exiting with status 0 if the product is
// correct. It makes no system calls and exists to occupy memory and time.
func MatMult(sys loader.Syscalls) int {
	var a, b, c [matDim][matDim]int

	for i := 0; i < matDim; i++ {
		for j := 0; j < matDim; j++ {
			a[i][j] = i
			b[i][j] = j
		}
	}
	for i := 0; i < matDim; i++ {
		for j := 0; j < matDim; j++ {
			for k := 0; k < matDim; k++ {
				c[i][j] += a[i][k] * b[k][j]
			}
		}
	}

	for i := 0; i < matDim; i++ {
		for j := 0; j < matDim; j++ {
			if c[i][j] != matDim*i*j {
				return 1
			}
		}
	}
	return 0
}
