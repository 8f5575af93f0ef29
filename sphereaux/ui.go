//go:build !tinygo && cgo

package sphereaux

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/geosphere"
	"github.com/soypat/geosphere/fastmath"
	"github.com/soypat/geosphere/meshtool"
	"github.com/soypat/glgl/v4.6-core/glgl"
)

const vertexSrc = `#version 460
in vec3 aPos;
in vec3 aNormal;
uniform float uYaw;
uniform float uPitch;
uniform float uScale;
uniform float uAspect;
out vec3 vNormal;
void main() {
	float cy = cos(uYaw), sy = sin(uYaw);
	float cp = cos(uPitch), sp = sin(uPitch);
	mat3 ry = mat3(cy, 0.0, -sy, 0.0, 1.0, 0.0, sy, 0.0, cy);
	mat3 rx = mat3(1.0, 0.0, 0.0, 0.0, cp, sp, 0.0, -sp, cp);
	vec3 p = rx * ry * aPos * uScale;
	vNormal = rx * ry * aNormal;
	gl_Position = vec4(p.x / uAspect, p.y, -0.5 * p.z, 1.0);
}
` + "\x00"

const fragmentSrc = `#version 460
in vec3 vNormal;
out vec4 fragColor;
void main() {
	vec3 nor = normalize(vNormal);
	if (!gl_FrontFacing) {
		nor = -nor;
	}
	float dif = clamp(dot(nor, vec3(0.57703)), 0.0, 1.0);
	float amb = 0.5 + 0.5 * dot(nor, vec3(0.0, 1.0, 0.0));
	vec3 col = vec3(0.2, 0.3, 0.4) * amb + vec3(0.8, 0.7, 0.5) * dif;
	if (!gl_FrontFacing) {
		col *= 0.4;
	}
	fragColor = vec4(sqrt(col), 1.0);
}
` + "\x00"

func ui(cfg UIConfig) error {
	window, term, err := startGLFW(cfg.Width, cfg.Height)
	if err != nil {
		return err
	}
	defer term()
	prog, err := glgl.CompileProgram(glgl.ShaderSource{
		Vertex:   vertexSrc,
		Fragment: fragmentSrc,
	})
	if err != nil {
		return err
	}
	prog.Bind()

	var vao, vbo, ebo uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.GenBuffers(1, &vbo)
	gl.GenBuffers(1, &ebo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)

	posAttrib, err := prog.AttribLocation("aPos\x00")
	if err != nil {
		return err
	}
	normAttrib, err := prog.AttribLocation("aNormal\x00")
	if err != nil {
		return err
	}
	const stride = 6 * 4
	gl.EnableVertexAttribArray(posAttrib)
	gl.VertexAttribPointer(posAttrib, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(normAttrib)
	gl.VertexAttribPointer(normAttrib, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))

	yawUniform, err := prog.UniformLocation("uYaw\x00")
	if err != nil {
		return err
	}
	pitchUniform, err := prog.UniformLocation("uPitch\x00")
	if err != nil {
		return err
	}
	scaleUniform, err := prog.UniformLocation("uScale\x00")
	if err != nil {
		return err
	}
	aspectUniform, err := prog.UniformLocation("uAspect\x00")
	if err != nil {
		return err
	}
	gl.Enable(gl.DEPTH_TEST)

	var (
		mesh     meshtool.Mesh
		gen      geosphere.Generator
		vertices []float32
		indices  []uint32
		shape    = cfg.Shape
		level    = cfg.Level
		correct  = cfg.Correction
		maxLevel = geosphere.MaxLevel
		extent   float32
	)
	buf := meshtool.NewBuffer(&mesh, meshtool.Triangles)
	// upload regenerates the mesh and copies it to GPU memory.
	upload := func() {
		if shape == geosphere.ShapePyramid {
			maxLevel = 6 * 4
		} else {
			maxLevel = geosphere.MaxLevel
		}
		level = max(0, min(level, maxLevel))
		start := time.Now()
		gen.Generate(buf, shape, cfg.Radius, level, correct)
		extent = max(fastmath.Length(mesh.Bounds.Min), fastmath.Length(mesh.Bounds.Max))
		vertices = vertices[:0]
		for i, p := range mesh.Positions {
			n := mesh.Normals[i]
			vertices = append(vertices, p.X, p.Y, p.Z, n.X, n.Y, n.Z)
		}
		indices = indices[:0]
		for _, idx := range mesh.Indices {
			indices = append(indices, uint32(idx))
		}
		gl.BufferData(gl.ARRAY_BUFFER, 4*len(vertices), gl.Ptr(vertices), gl.STATIC_DRAW)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, 4*len(indices), gl.Ptr(indices), gl.STATIC_DRAW)
		window.SetTitle(fmt.Sprintf("%s level %d correction=%v: %d vertices, %d triangles (%s)",
			shape, level, correct, len(mesh.Positions), mesh.TriangleCount(), time.Since(start)))
	}
	upload()

	var (
		yaw              float64 = 0.6
		pitch            float64 = 0.5
		zoom             float64 = 1
		lastMouseX       float64
		lastMouseY       float64
		firstMouseMove   = true
		isMousePressed   = false
		yawSensitivity   = 0.005
		pitchSensitivity = 0.005
		refresh          = true
	)
	window.SetCursorPosCallback(func(w *glfw.Window, xpos float64, ypos float64) {
		if !isMousePressed {
			return
		}
		refresh = true
		if firstMouseMove {
			lastMouseX = xpos
			lastMouseY = ypos
			firstMouseMove = false
		}
		yaw += (xpos - lastMouseX) * yawSensitivity
		pitch += (ypos - lastMouseY) * pitchSensitivity
		maxPitch := math.Pi/2 - 0.01
		pitch = max(-maxPitch, min(pitch, maxPitch))
		lastMouseX = xpos
		lastMouseY = ypos
	})
	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		refresh = true
		zoom *= 1 + 0.1*yoff
		zoom = max(0.05, min(zoom, 20))
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		if action == glfw.Press {
			isMousePressed = true
			firstMouseMove = true
			window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		} else if action == glfw.Release {
			isMousePressed = false
			window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
		}
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Release {
			return
		}
		switch key {
		case glfw.KeyUp:
			level++
		case glfw.KeyDown:
			level--
		case glfw.KeyC:
			correct = !correct
		case glfw.KeyH:
			shape = (shape + 1) % (geosphere.ShapePyramid + 1)
		case glfw.KeyEscape:
			w.SetShouldClose(true)
			return
		default:
			return
		}
		upload()
		refresh = true
	})

	ctx := cfg.Context
	for !window.ShouldClose() {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
		width, height := window.GetFramebufferSize()
		gl.Viewport(0, 0, int32(width), int32(height))
		gl.ClearColor(0.0, 0.0, 0.0, 1.0)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

		prog.Bind()
		gl.Uniform1f(yawUniform, float32(yaw))
		gl.Uniform1f(pitchUniform, float32(pitch))
		gl.Uniform1f(scaleUniform, float32(0.9*zoom)/extent)
		gl.Uniform1f(aspectUniform, float32(width)/float32(max(height, 1)))
		gl.BindVertexArray(vao)
		gl.DrawElements(gl.TRIANGLES, int32(len(indices)), gl.UNSIGNED_INT, gl.PtrOffset(0))
		window.SwapBuffers()

		// Only redraw on input.
		for {
			time.Sleep(time.Second / 60)
			glfw.PollEvents()
			if refresh || window.ShouldClose() {
				refresh = false
				break
			}
		}
	}
	return nil
}

func startGLFW(width, height int) (window *glfw.Window, term func(), err error) {
	if err := glfw.Init(); err != nil {
		return nil, nil, fmt.Errorf("initializing GLFW: %w", err)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	window, err = glfw.CreateWindow(width, height, "geosphere viewer", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("creating GLFW window: %w", err)
	}
	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("initializing OpenGL: %w", err)
	}
	log.Println("OpenGL version", gl.GoStr(gl.GetString(gl.VERSION)))
	return window, glfw.Terminate, nil
}
