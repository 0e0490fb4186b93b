package opengl

import (
	"fmt"
	"math"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"

	"fieldglobe/rendering"
	"fieldglobe/rendering/opengl/overlay"
)

const (
	defaultCameraDistance = 3.0
	minCameraDistance     = 1.2
	maxCameraDistance     = 10.0
	mouseSensitivity      = 0.008
)

// Window is the GLFW mount point with an orbit camera around the origin.
type Window struct {
	window *glfw.Window
	device *Device
	logger zerolog.Logger

	width, height int
	title         string

	// Camera
	viewMatrix      mgl32.Mat4
	projMatrix      mgl32.Mat4
	cameraPos       mgl32.Vec3
	cameraRotationX float32
	cameraRotationY float32

	// Mouse state for camera control
	mouseDown  bool
	lastMouseX float64
	lastMouseY float64

	status     *overlay.StatusOverlay
	showStatus bool

	// OnHover receives the cursor ray hit on the globe surface, or ok=false.
	OnHover func(hit mgl32.Vec3, ok bool)
}

// NewWindow opens a window and makes its GL context current on the
// calling goroutine, which stays locked to its OS thread.
func NewWindow(width, height int, title string, logger zerolog.Logger) (*Window, error) {
	runtime.LockOSThread()

	// Initialize GLFW
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// Configure OpenGL context
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Samples, 4)

	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	if err := gl.Init(); err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Info().Str("version", gl.GoStr(gl.GetString(gl.VERSION))).Msg("OpenGL initialized")

	// Framebuffer can differ from window size on HiDPI displays
	fbWidth, fbHeight := window.GetFramebufferSize()

	device, err := NewDevice(fbHeight)
	if err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("failed to compile shaders: %w", err)
	}

	w := &Window{
		window:     window,
		device:     device,
		logger:     logger,
		width:      fbWidth,
		height:     fbHeight,
		title:      title,
		cameraPos:  mgl32.Vec3{0, 0, defaultCameraDistance},
		showStatus: true,
	}
	// Start facing longitude 0
	w.cameraRotationX = math.Pi / 2

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.MULTISAMPLE)
	gl.ClearColor(0, 0, 0, 1)
	gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))

	w.updateMatrices()

	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.onResize(width, height)
	})
	window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		w.onKey(key, action)
	})
	window.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		w.onScroll(yoff)
	})
	window.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		w.onMouseButton(button, action)
	})
	window.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		w.onMouseMove(xpos, ypos)
	})

	status, err := overlay.NewStatusOverlay(fbWidth, fbHeight)
	if err != nil {
		logger.Warn().Err(err).Msg("Status overlay unavailable")
	} else {
		w.status = status
	}

	return w, nil
}

// Device returns the resource factory bound to this window's context.
func (w *Window) Device() rendering.Device {
	return w.device
}

// Size returns the framebuffer size in pixels.
func (w *Window) Size() (int, int) {
	return w.width, w.height
}

// Camera returns the matrices for the current frame.
func (w *Window) Camera() rendering.Camera {
	return rendering.Camera{
		View:       w.viewMatrix,
		Projection: w.projMatrix,
		Position:   w.cameraPos,
	}
}

// Render clears the frame, draws scene (if any) and the status overlay,
// then swaps buffers.
func (w *Window) Render(scene *rendering.Scene, status overlay.Status) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	if scene != nil {
		scene.Draw(w.Camera())
	}
	if w.status != nil && (w.showStatus || status.Fallback) {
		w.status.Update(status)
		w.status.Render()
	}

	if err := gl.GetError(); err != gl.NO_ERROR {
		w.logger.Debug().Uint32("code", err).Msg("OpenGL error")
	}
	w.window.SwapBuffers()
}

// SetTitleSuffix shows extra text after the base title, or the base title
// alone when s is empty.
func (w *Window) SetTitleSuffix(s string) {
	if s == "" {
		w.window.SetTitle(w.title)
		return
	}
	w.window.SetTitle(w.title + " - " + s)
}

// updateMatrices updates view and projection matrices
func (w *Window) updateMatrices() {
	dist := w.cameraPos.Len()

	// Convert spherical coordinates to cartesian
	x := dist * float32(math.Cos(float64(w.cameraRotationY))) * float32(math.Cos(float64(w.cameraRotationX)))
	y := dist * float32(math.Sin(float64(w.cameraRotationY)))
	z := dist * float32(math.Cos(float64(w.cameraRotationY))) * float32(math.Sin(float64(w.cameraRotationX)))
	w.cameraPos = mgl32.Vec3{x, y, z}

	// View matrix - looking at origin
	w.viewMatrix = mgl32.LookAtV(w.cameraPos, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})

	aspect := float32(w.width) / float32(w.height)
	w.projMatrix = mgl32.Perspective(mgl32.DegToRad(50.0), aspect, 0.01, 100.0)
}

func (w *Window) onResize(width, height int) {
	if width == 0 || height == 0 {
		return
	}
	w.width = width
	w.height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	w.device.SetViewportHeight(height)
	if w.status != nil {
		w.status.UpdateSize(width, height)
	}
	w.updateMatrices()
}

func (w *Window) onKey(key glfw.Key, action glfw.Action) {
	if action != glfw.Press {
		return
	}
	switch key {
	case glfw.KeyEscape, glfw.KeyQ:
		w.window.SetShouldClose(true)
	case glfw.KeyS:
		w.showStatus = !w.showStatus
	case glfw.KeyR:
		w.cameraRotationX = math.Pi / 2
		w.cameraRotationY = 0
		w.cameraPos = mgl32.Vec3{0, 0, defaultCameraDistance}
		w.updateMatrices()
	}
}

func (w *Window) onScroll(yoff float64) {
	zoom := float32(1.0 - yoff*0.1)
	dist := w.cameraPos.Len() * zoom
	if dist < minCameraDistance {
		dist = minCameraDistance
	} else if dist > maxCameraDistance {
		dist = maxCameraDistance
	}
	w.cameraPos = w.cameraPos.Normalize().Mul(dist)
	w.updateMatrices()
}

func (w *Window) onMouseButton(button glfw.MouseButton, action glfw.Action) {
	if button != glfw.MouseButtonLeft {
		return
	}
	switch action {
	case glfw.Press:
		w.mouseDown = true
		w.lastMouseX, w.lastMouseY = w.window.GetCursorPos()
	case glfw.Release:
		w.mouseDown = false
	}
}

func (w *Window) onMouseMove(xpos, ypos float64) {
	if !w.mouseDown {
		w.hover(xpos, ypos)
		return
	}

	dx := float32(xpos - w.lastMouseX)
	dy := float32(ypos - w.lastMouseY)

	// Slow down when zoomed in close to the surface
	sensitivity := float32(mouseSensitivity) * (w.cameraPos.Len() / defaultCameraDistance)
	w.cameraRotationX += dx * sensitivity
	w.cameraRotationY += dy * sensitivity

	// Clamp vertical rotation
	if w.cameraRotationY > 1.5 {
		w.cameraRotationY = 1.5
	}
	if w.cameraRotationY < -1.5 {
		w.cameraRotationY = -1.5
	}

	w.lastMouseX = xpos
	w.lastMouseY = ypos
	w.updateMatrices()
}

// hover casts the cursor ray against the unit globe.
func (w *Window) hover(xpos, ypos float64) {
	if w.OnHover == nil {
		return
	}
	// Cursor positions are in window coordinates
	winW, winH := w.window.GetSize()
	if winW == 0 || winH == 0 {
		return
	}
	origin, dir := rendering.ScreenRay(w.Camera(), winW, winH, xpos, ypos)
	hit, ok := rendering.RaySphere(origin, dir, 1)
	w.OnHover(hit, ok)
}

// ShouldClose returns true if the window should close
func (w *Window) ShouldClose() bool {
	return w.window.ShouldClose()
}

// PollEvents processes window events
func (w *Window) PollEvents() {
	glfw.PollEvents()
}

// Terminate releases the overlay, programs and window. Scene resources
// must be released before this.
func (w *Window) Terminate() {
	if w.status != nil {
		w.status.Release()
	}
	w.device.Release()
	w.window.Destroy()
	glfw.Terminate()
}
