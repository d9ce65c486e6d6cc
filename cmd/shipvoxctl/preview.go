//go:build preview

package main

import (
	"fmt"
	"image"
	"image/draw"
	"math"
	"os"
	"runtime"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"shipvox/internal/layout"
	"shipvox/internal/mesher"
)

// runPreview loads a .vmsh binary mesh cache file (SPEC_FULL.md §6.1) and
// renders it in a free-fly-camera GLFW window, reprising the teacher's
// graphics rendering loop scoped down to "draw one mesh" (SPEC_FULL.md
// §4.12). It never runs unless the repo is built with -tags preview, so
// the core packages never pull OpenGL/GLFW into their compile path.
func runPreview(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: shipvoxctl preview <mesh.vmsh>")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	m, err := layout.DecodeMesh(data)
	if err != nil {
		return err
	}

	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()

	window, err := setupPreviewWindow()
	if err != nil {
		return err
	}

	if err := gl.Init(); err != nil {
		return err
	}

	prog, err := compilePreviewShader()
	if err != nil {
		return err
	}
	defer gl.DeleteProgram(prog)

	vao, vbo, ebo := uploadMesh(m)
	defer gl.DeleteVertexArrays(1, &vao)
	defer gl.DeleteBuffers(1, &vbo)
	defer gl.DeleteBuffers(1, &ebo)

	hud, err := newHUDOverlay()
	if err != nil {
		// The stats overlay is a nicety, not essential to inspecting a
		// mesh: a missing/unreadable system font degrades to "no HUD"
		// rather than aborting the preview entirely.
		fmt.Fprintf(os.Stderr, "shipvoxctl preview: HUD overlay disabled: %v\n", err)
		hud = nil
	}
	if hud != nil {
		defer hud.dispose()
	}

	cam := newFreeFlyCamera()
	window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	window.SetCursorPosCallback(cam.onCursorMove)

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)

	prevTime := glfw.GetTime()
	frameCount := 0
	fps := 0.0
	fpsAcc := 0.0

	for !window.ShouldClose() {
		now := glfw.GetTime()
		dt := now - prevTime
		prevTime = now

		frameCount++
		fpsAcc += dt
		if fpsAcc >= 0.5 {
			fps = float64(frameCount) / fpsAcc
			frameCount = 0
			fpsAcc = 0
		}

		cam.handleInput(window, dt)

		width, height := window.GetSize()
		gl.Viewport(0, 0, int32(width), int32(height))
		gl.ClearColor(0.08, 0.09, 0.11, 1.0)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

		view := cam.viewMatrix()
		proj := mgl32.Perspective(mgl32.DegToRad(70), float32(width)/float32(height), 0.01, 500.0)

		gl.UseProgram(prog)
		setUniformMat4(prog, "uView", view)
		setUniformMat4(prog, "uProj", proj)

		gl.BindVertexArray(vao)
		gl.DrawElements(gl.TRIANGLES, int32(len(m.Indices)), gl.UNSIGNED_INT, nil)
		gl.BindVertexArray(0)

		if hud != nil {
			hud.draw(width, height, fmt.Sprintf("%.0f fps  %d verts  %d tris", fps, len(m.Vertices), len(m.Indices)/3))
		}

		window.SwapBuffers()
		glfw.PollEvents()
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
		}
	}

	return nil
}

func setupPreviewWindow() (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	window, err := glfw.CreateWindow(1024, 768, "shipvoxctl preview", nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)
	return window, nil
}

// uploadMesh copies a mesher.Mesh's interleaved position/normal/color
// vertices into a VAO the way the teacher's blocks renderable uploads
// chunk meshes, minus the texture-atlas UV attribute this mesh format
// doesn't carry (mesher.Vertex has no UVs; color comes straight from the
// palette baked at mesh-build time).
func uploadMesh(m mesher.Mesh) (vao, vbo, ebo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)
	gl.GenBuffers(1, &ebo)

	gl.BindVertexArray(vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*9*4, gl.Ptr(flattenVertices(m.Vertices)), gl.STATIC_DRAW)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)

	stride := int32(9 * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 3, gl.FLOAT, false, stride, gl.PtrOffset(6*4))
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	return vao, vbo, ebo
}

func flattenVertices(vs []mesher.Vertex) []float32 {
	flat := make([]float32, 0, len(vs)*9)
	for _, v := range vs {
		flat = append(flat,
			v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2],
			v.Color[0], v.Color[1], v.Color[2],
		)
	}
	return flat
}

const previewVertShader = `#version 410 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec3 aColor;

uniform mat4 uView;
uniform mat4 uProj;

out vec3 vColor;
out vec3 vNormal;

void main() {
    gl_Position = uProj * uView * vec4(aPos, 1.0);
    vColor = aColor;
    vNormal = aNormal;
}
` + "\x00"

const previewFragShader = `#version 410 core
in vec3 vColor;
in vec3 vNormal;
out vec4 FragColor;

void main() {
    vec3 lightDir = normalize(vec3(0.4, 1.0, 0.3));
    float diffuse = max(dot(normalize(vNormal), lightDir), 0.0);
    float ambient = 0.35;
    FragColor = vec4(vColor * (ambient + diffuse * 0.65), 1.0);
}
` + "\x00"

// compilePreviewShader mirrors the teacher's graphics.NewShader /
// compileProgram / compileShader shape, with the source embedded as a
// string constant rather than loaded from a shader file, since this CLI
// ships no assets directory.
func compilePreviewShader() (uint32, error) {
	vs, err := compilePreviewStage(previewVertShader, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := compilePreviewStage(previewFragShader, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		logStr := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(logStr))
		return 0, fmt.Errorf("link preview shader: %v", logStr)
	}
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)
	return program, nil
}

func compilePreviewStage(source string, kind uint32) (uint32, error) {
	shader := gl.CreateShader(kind)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		logStr := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(logStr))
		return 0, fmt.Errorf("compile preview shader stage: %v", logStr)
	}
	return shader, nil
}

func setUniformMat4(prog uint32, name string, m mgl32.Mat4) {
	gl.UniformMatrix4fv(gl.GetUniformLocation(prog, gl.Str(name+"\x00")), 1, false, &m[0])
}

// freeFlyCamera is a minimal WASD + mouse-look camera, reprising
// player.GetFrontVector/GetViewMatrix's yaw/pitch-to-LookAtV shape without
// the physics/collision state a full player carries — this viewer has no
// world to collide with, only one standalone mesh.
type freeFlyCamera struct {
	position       mgl32.Vec3
	yaw, pitch     float64
	lastX, lastY   float64
	firstMouseMove bool
}

func newFreeFlyCamera() *freeFlyCamera {
	return &freeFlyCamera{
		position:       mgl32.Vec3{0, 1, 4},
		yaw:            -90.0,
		pitch:          -10.0,
		firstMouseMove: true,
	}
}

func (c *freeFlyCamera) onCursorMove(w *glfw.Window, xpos, ypos float64) {
	if c.firstMouseMove {
		c.lastX, c.lastY = xpos, ypos
		c.firstMouseMove = false
		return
	}
	xoffset := (xpos - c.lastX) * 0.12
	yoffset := (c.lastY - ypos) * 0.12
	c.lastX, c.lastY = xpos, ypos

	c.yaw += xoffset
	c.pitch += yoffset
	if c.pitch > 89.0 {
		c.pitch = 89.0
	}
	if c.pitch < -89.0 {
		c.pitch = -89.0
	}
}

func (c *freeFlyCamera) front() mgl32.Vec3 {
	y := mgl32.DegToRad(float32(c.yaw))
	p := mgl32.DegToRad(float32(c.pitch))
	fx := float32(math.Cos(float64(y)) * math.Cos(float64(p)))
	fy := float32(math.Sin(float64(p)))
	fz := float32(math.Sin(float64(y)) * math.Cos(float64(p)))
	return mgl32.Vec3{fx, fy, fz}.Normalize()
}

func (c *freeFlyCamera) viewMatrix() mgl32.Mat4 {
	f := c.front()
	return mgl32.LookAtV(c.position, c.position.Add(f), mgl32.Vec3{0, 1, 0})
}

func (c *freeFlyCamera) handleInput(w *glfw.Window, dt float64) {
	speed := float32(3.0 * dt)
	if w.GetKey(glfw.KeyLeftShift) == glfw.Press {
		speed *= 4
	}
	f := c.front()
	right := f.Cross(mgl32.Vec3{0, 1, 0}).Normalize()

	if w.GetKey(glfw.KeyW) == glfw.Press {
		c.position = c.position.Add(f.Mul(speed))
	}
	if w.GetKey(glfw.KeyS) == glfw.Press {
		c.position = c.position.Sub(f.Mul(speed))
	}
	if w.GetKey(glfw.KeyA) == glfw.Press {
		c.position = c.position.Sub(right.Mul(speed))
	}
	if w.GetKey(glfw.KeyD) == glfw.Press {
		c.position = c.position.Add(right.Mul(speed))
	}
	if w.GetKey(glfw.KeySpace) == glfw.Press {
		c.position = c.position.Add(mgl32.Vec3{0, speed, 0})
	}
	if w.GetKey(glfw.KeyLeftControl) == glfw.Press {
		c.position = c.position.Sub(mgl32.Vec3{0, speed, 0})
	}
}

// hudOverlay loads a font face the way the teacher's
// graphics.BuildFontAtlas does (golang.org/x/image/font/opentype +
// math/fixed for per-glyph advance), but instead of baking a glyph atlas
// it rasterizes the whole HUD line into one software-composited image,
// re-uploaded as a texture only when the text changes and drawn as a
// single screen-space quad, since this viewer only ever shows one HUD line.
type hudOverlay struct {
	face       font.Face
	texture    uint32
	quadVAO    uint32
	quadVBO    uint32
	shader     uint32
	lastText   string
	texW, texH int
}

const previewHUDFontPath = "/usr/share/fonts/truetype/dejavu/DejaVuSansMono.ttf"

func newHUDOverlay() (*hudOverlay, error) {
	fontBytes, err := os.ReadFile(previewHUDFontPath)
	if err != nil {
		return nil, fmt.Errorf("read HUD font: %w", err)
	}
	f, err := opentype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("parse HUD font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 16, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("new HUD face: %w", err)
	}

	shader, err := compileHUDShader()
	if err != nil {
		return nil, err
	}

	h := &hudOverlay{face: face, shader: shader}
	h.quadVAO, h.quadVBO = makeHUDQuad()
	gl.GenTextures(1, &h.texture)
	return h, nil
}

func (h *hudOverlay) dispose() {
	gl.DeleteTextures(1, &h.texture)
	gl.DeleteVertexArrays(1, &h.quadVAO)
	gl.DeleteBuffers(1, &h.quadVBO)
	gl.DeleteProgram(h.shader)
}

// draw rasterizes text into an RGBA image with the baked face, uploads it
// as a texture only when the string changed, and blits it top-left.
func (h *hudOverlay) draw(screenW, screenH int, text string) {
	if text != h.lastText {
		h.rasterize(text)
		h.lastText = text
	}
	if h.texW == 0 || h.texH == 0 {
		return
	}

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)

	gl.UseProgram(h.shader)
	// NDC rect in the top-left corner, sized to the rasterized text image's
	// pixel extent relative to the current framebuffer.
	w := float32(h.texW) / float32(screenW) * 2
	ht := float32(h.texH) / float32(screenH) * 2
	gl.Uniform4f(gl.GetUniformLocation(h.shader, gl.Str("uRect\x00")), -1+0.02, 1-0.02-ht, w, ht)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, h.texture)
	gl.Uniform1i(gl.GetUniformLocation(h.shader, gl.Str("uTex\x00")), 0)

	gl.BindVertexArray(h.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)

	gl.Enable(gl.DEPTH_TEST)
	gl.Disable(gl.BLEND)
}

func (h *hudOverlay) rasterize(text string) {
	metrics := h.face.Metrics()
	lineHeight := metrics.Height.Ceil()
	width := 0
	for _, r := range text {
		adv, ok := h.face.GlyphAdvance(r)
		if ok {
			width += adv.Ceil()
		}
	}
	if width == 0 {
		width = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, width+4, lineHeight+4))
	draw.Draw(img, img.Bounds(), image.NewUniform(image.Transparent), image.Point{}, draw.Src)

	dot := fixed.P(2, lineHeight-metrics.Descent.Ceil())
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(image.White),
		Face: h.face,
		Dot:  dot,
	}
	d.DrawString(text)

	h.texW, h.texH = img.Rect.Dx(), img.Rect.Dy()
	gl.BindTexture(gl.TEXTURE_2D, h.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(h.texW), int32(h.texH), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func makeHUDQuad() (vao, vbo uint32) {
	// Unit quad in [0,1]x[0,1], positioned/scaled by uRect in the shader.
	verts := []float32{
		0, 0, 0, 1,
		1, 0, 1, 1,
		1, 1, 1, 0,
		0, 0, 0, 1,
		1, 1, 1, 0,
		0, 1, 0, 0,
	}
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.STATIC_DRAW)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 4*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, 4*4, gl.PtrOffset(2*4))
	gl.EnableVertexAttribArray(1)
	gl.BindVertexArray(0)
	return vao, vbo
}

const hudVertShader = `#version 410 core
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aUV;
uniform vec4 uRect;
out vec2 vUV;
void main() {
    vec2 p = uRect.xy + aPos * uRect.zw;
    gl_Position = vec4(p, 0.0, 1.0);
    vUV = aUV;
}
` + "\x00"

const hudFragShader = `#version 410 core
in vec2 vUV;
uniform sampler2D uTex;
out vec4 FragColor;
void main() {
    FragColor = texture(uTex, vUV);
}
` + "\x00"

func compileHUDShader() (uint32, error) {
	vs, err := compilePreviewStage(hudVertShader, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := compilePreviewStage(hudFragShader, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}
	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)
	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		logStr := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(logStr))
		return 0, fmt.Errorf("link HUD shader: %v", logStr)
	}
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)
	return program, nil
}
