package energy

import "github.com/mjibson/go-dsp/fft"

// fft3 and ifft3 transform a flat [nz][ny][nx] complex grid (x fastest) by
// applying the 1D transform along each axis in turn. go-dsp handles
// arbitrary lengths (Bluestein), so padded dimensions need not be powers of
// two.
func fft3(data []complex128, nx, ny, nz int) {
	transform3(data, nx, ny, nz, fft.FFT)
}

func ifft3(data []complex128, nx, ny, nz int) {
	transform3(data, nx, ny, nz, fft.IFFT)
}

func transform3(data []complex128, nx, ny, nz int, tr func([]complex128) []complex128) {
	line := make([]complex128, nx)
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			base := nx * (j + ny*k)
			copy(line, data[base:base+nx])
			copy(data[base:base+nx], tr(line))
		}
	}
	liney := make([]complex128, ny)
	for k := 0; k < nz; k++ {
		for i := 0; i < nx; i++ {
			for j := 0; j < ny; j++ {
				liney[j] = data[i+nx*(j+ny*k)]
			}
			out := tr(liney)
			for j := 0; j < ny; j++ {
				data[i+nx*(j+ny*k)] = out[j]
			}
		}
	}
	linez := make([]complex128, nz)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			for k := 0; k < nz; k++ {
				linez[k] = data[i+nx*(j+ny*k)]
			}
			out := tr(linez)
			for k := 0; k < nz; k++ {
				data[i+nx*(j+ny*k)] = out[k]
			}
		}
	}
}
