package bimage

import (
	"image"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Vec2D represents the gradient of an image at a point.
// The gradient has both a magnitude and direction.
// Magnitude has values (0, infinity) and direction is [0, 2pi)
type Vec2D struct {
	magnitude float64
	direction float64
}

// NewVec2D creates a vector from a magnitude and a direction.
func NewVec2D(mag, dir float64) Vec2D {
	return Vec2D{mag, dir}
}

func (g Vec2D) Magnitude() float64 {
	return g.magnitude
}

func (g Vec2D) Direction() float64 {
	return g.direction
}

// VectorField2D stores all the gradient vectors of the image
// allowing one to retrieve the gradient for any given (x,y) point.
type VectorField2D struct {
	width  int
	height int

	data         []Vec2D
	maxMagnitude float64
}

// MakeEmptyVectorField2D returns an all-zero gradient field.
func MakeEmptyVectorField2D(width, height int) VectorField2D {
	return VectorField2D{
		width:        width,
		height:       height,
		data:         make([]Vec2D, width*height),
		maxMagnitude: 0.0,
	}
}

func (vf *VectorField2D) kxy(x, y int) int {
	return (y * vf.width) + x
}

func (vf *VectorField2D) Width() int {
	return vf.width
}

func (vf *VectorField2D) Height() int {
	return vf.height
}

// Contains reports whether the point lies inside the field.
func (vf *VectorField2D) Contains(p image.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < vf.width && p.Y < vf.height
}

func (vf *VectorField2D) Get(p image.Point) Vec2D {
	return vf.data[vf.kxy(p.X, p.Y)]
}

func (vf *VectorField2D) GetVec2D(x, y int) Vec2D {
	return vf.data[vf.kxy(x, y)]
}

func (vf *VectorField2D) Set(x, y int, val Vec2D) {
	vf.data[vf.kxy(x, y)] = val
	vf.maxMagnitude = math.Max(math.Abs(val.Magnitude()), vf.maxMagnitude)
}

// MaxMagnitude returns the largest gradient magnitude in the field.
func (vf *VectorField2D) MaxMagnitude() float64 {
	return vf.maxMagnitude
}

// MagnitudeField gets all the magnitudes of the gradient in the image as a mat.Dense.
func (vf *VectorField2D) MagnitudeField() *mat.Dense {
	h, w := vf.Height(), vf.Width()
	mag := make([]float64, 0, h*w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			mag = append(mag, vf.GetVec2D(x, y).Magnitude())
		}
	}
	return mat.NewDense(h, w, mag)
}

func getMagnitudeAndDirection(x, y float64) (float64, float64) {
	mag := math.Sqrt(x*x + y*y)
	// get direction - make angle so that it is between [0, 2pi] rather than [-pi, pi]
	dir := math.Atan2(y, x)
	if dir < 0. {
		dir += 2. * math.Pi
	}
	return mag, dir
}

// Gradient convolves the raster with a pair of directional kernels and
// assembles the responses into a polar vector field.
func Gradient(m *mat.Dense, kernelX, kernelY Kernel) (VectorField2D, error) {
	gx, err := ConvolveGrayFloat64(m, &kernelX)
	if err != nil {
		return VectorField2D{}, err
	}
	gy, err := ConvolveGrayFloat64(m, &kernelY)
	if err != nil {
		return VectorField2D{}, err
	}
	h, w := m.Dims()
	vf := MakeEmptyVectorField2D(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			mag, dir := getMagnitudeAndDirection(gx.At(y, x), gy.At(y, x))
			vf.Set(x, y, NewVec2D(mag, dir))
		}
	}
	return vf, nil
}

// SobelGradient approximates the intensity gradient at every pixel with the
// Sobel operator.
func SobelGradient(m *mat.Dense) (VectorField2D, error) {
	return Gradient(m, GetSobelX(), GetSobelY())
}

// gradientMagnitude combines two directional responses into a scaled
// magnitude raster.
func gradientMagnitude(m *mat.Dense, kernelX, kernelY Kernel, scale float64) (*mat.Dense, error) {
	gx, err := ConvolveGrayFloat64(m, &kernelX)
	if err != nil {
		return nil, err
	}
	gy, err := ConvolveGrayFloat64(m, &kernelY)
	if err != nil {
		return nil, err
	}
	h, w := m.Dims()
	out := mat.NewDense(h, w, nil)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Set(y, x, math.Hypot(gx.At(y, x), gy.At(y, x))*scale)
		}
	}
	return out, nil
}

// Edge magnitudes are scaled so that a clean unit step lands inside the unit
// range, keeping them directly writable as images.

// SobelMagnitude returns the Sobel edge magnitude of a grey raster.
func SobelMagnitude(m *mat.Dense) (*mat.Dense, error) {
	return gradientMagnitude(m, GetSobelX(), GetSobelY(), 1./(4.*math.Sqrt2))
}

// PrewittMagnitude returns the Prewitt edge magnitude of a grey raster.
func PrewittMagnitude(m *mat.Dense) (*mat.Dense, error) {
	return gradientMagnitude(m, GetPrewittX(), GetPrewittY(), 1./(3.*math.Sqrt2))
}

// ScharrMagnitude returns the Scharr edge magnitude of a grey raster.
func ScharrMagnitude(m *mat.Dense) (*mat.Dense, error) {
	return gradientMagnitude(m, GetScharrX(), GetScharrY(), 1./(16.*math.Sqrt2))
}

// RobertsMagnitude returns the Roberts cross edge magnitude of a grey raster.
func RobertsMagnitude(m *mat.Dense) (*mat.Dense, error) {
	return gradientMagnitude(m, GetRobertsX(), GetRobertsY(), 1./math.Sqrt2)
}

// Laplace returns the raw response of the discrete Laplacian; zero crossings
// mark edges, so values may be negative.
func Laplace(m *mat.Dense) (*mat.Dense, error) {
	k := GetLaplacian()
	return ConvolveGrayFloat64(m, &k)
}
