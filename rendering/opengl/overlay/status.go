// Package overlay draws the screen-space status panel on top of the scene.
package overlay

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"fieldglobe/rendering/opengl/shaders"
)

// Status is what the panel shows. Values are drawn as bars; the fallback
// replaces the panel with a red error box.
type Status struct {
	FPS         float64
	GlobalIndex float64 // 0-9
	KpIndex     float64 // 0-9
	Coherence   float64 // 0-1
	Fallback    bool
}

const (
	maxFPSBar  = 120.0
	barMaxW    = 200
	barHeight  = 12
	barSpacing = 22
)

var (
	panelColor    = mgl32.Vec4{0.1, 0.1, 0.3, 0.8}
	fallbackColor = mgl32.Vec4{0.6, 0.05, 0.05, 0.9}
	fpsColor      = mgl32.Vec4{0.0, 1.0, 0.0, 1.0}
	geomagColor   = mgl32.Vec4{0.2, 0.4, 1.0, 1.0}
	kpColor       = mgl32.Vec4{1.0, 1.0, 0.0, 1.0}
	coherentColor = mgl32.Vec4{0.3, 0.75, 0.75, 1.0}
)

// StatusOverlay renders the status panel
type StatusOverlay struct {
	program uint32
	vao     uint32
	vbo     uint32

	width  float32
	height float32

	status   Status
	vertices []float32
}

// NewStatusOverlay creates a status overlay renderer
func NewStatusOverlay(width, height int) (*StatusOverlay, error) {
	so := &StatusOverlay{
		width:  float32(width),
		height: float32(height),
	}

	program, err := buildProgram()
	if err != nil {
		return nil, err
	}
	so.program = program

	gl.GenVertexArrays(1, &so.vao)
	gl.GenBuffers(1, &so.vbo)

	gl.BindVertexArray(so.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, so.vbo)

	// Each vertex has 6 floats: 2 for position, 4 for color
	stride := int32(6 * 4)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 4, gl.FLOAT, false, stride, gl.PtrOffset(2*4))
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	return so, nil
}

func buildProgram() (uint32, error) {
	vert, err := compileShader(shaders.Overlay.Vertex, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("failed to compile status vertex shader: %w", err)
	}
	defer gl.DeleteShader(vert)

	frag, err := compileShader(shaders.Overlay.Fragment, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("failed to compile status fragment shader: %w", err)
	}
	defer gl.DeleteShader(frag)

	program := gl.CreateProgram()
	gl.AttachShader(program, vert)
	gl.AttachShader(program, frag)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := make([]byte, logLength+1)
		gl.GetProgramInfoLog(program, logLength, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("status shader link failed: %s", log)
	}
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := make([]byte, logLength+1)
		gl.GetShaderInfoLog(shader, logLength, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s", log)
	}
	return shader, nil
}

// Update sets the values to display
func (so *StatusOverlay) Update(s Status) {
	so.status = s
}

// Render draws the panel
func (so *StatusOverlay) Render() {
	so.vertices = so.vertices[:0]

	if so.status.Fallback {
		// Centered error box
		w, h := so.width*0.7, so.height*0.2
		so.quad((so.width-w)/2, (so.height-h)/2, w, h, fallbackColor)
	} else {
		x, y := float32(10), float32(10)
		so.quad(x, y, barMaxW+20, 4*barSpacing+10, panelColor)
		so.bar(x+10, y+10, so.status.FPS/maxFPSBar, fpsColor)
		so.bar(x+10, y+10+barSpacing, so.status.GlobalIndex/9, geomagColor)
		so.bar(x+10, y+10+2*barSpacing, so.status.KpIndex/9, kpColor)
		so.bar(x+10, y+10+3*barSpacing, so.status.Coherence, coherentColor)
	}

	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	gl.UseProgram(so.program)
	projection := mgl32.Ortho2D(0, so.width, so.height, 0)
	gl.UniformMatrix4fv(gl.GetUniformLocation(so.program, gl.Str("projection\x00")), 1, false, &projection[0])

	gl.BindVertexArray(so.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, so.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(so.vertices)*4, gl.Ptr(so.vertices), gl.DYNAMIC_DRAW)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(so.vertices)/6))
	gl.BindVertexArray(0)

	// Restore OpenGL state
	gl.Enable(gl.DEPTH_TEST)
	gl.Disable(gl.BLEND)
}

// bar draws a horizontal bar filled to fraction of the full width.
func (so *StatusOverlay) bar(x, y float32, fraction float64, color mgl32.Vec4) {
	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}
	track := mgl32.Vec4{color[0], color[1], color[2], 0.2}
	so.quad(x, y, barMaxW, barHeight, track)
	so.quad(x, y, barMaxW*float32(fraction), barHeight, color)
}

func (so *StatusOverlay) quad(x, y, w, h float32, c mgl32.Vec4) {
	so.vertices = append(so.vertices,
		// Position     Color (RGBA)
		x, y, c[0], c[1], c[2], c[3],
		x+w, y, c[0], c[1], c[2], c[3],
		x, y+h, c[0], c[1], c[2], c[3],
		x+w, y, c[0], c[1], c[2], c[3],
		x+w, y+h, c[0], c[1], c[2], c[3],
		x, y+h, c[0], c[1], c[2], c[3],
	)
}

// UpdateSize updates viewport size
func (so *StatusOverlay) UpdateSize(width, height int) {
	so.width = float32(width)
	so.height = float32(height)
}

// Release cleans up resources
func (so *StatusOverlay) Release() {
	if so.program != 0 {
		gl.DeleteProgram(so.program)
		so.program = 0
	}
	if so.vao != 0 {
		gl.DeleteVertexArrays(1, &so.vao)
		so.vao = 0
	}
	if so.vbo != 0 {
		gl.DeleteBuffers(1, &so.vbo)
		so.vbo = 0
	}
}
