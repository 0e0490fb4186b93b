package shaders

import "fieldglobe/rendering"

// Points draws size-attenuated square sprites with per-vertex color.
var Points = rendering.ProgramSource{
	Name: "points",
	Vertex: `
#version 410 core

layout (location = 0) in vec3 position;
layout (location = 1) in vec3 color;

uniform mat4 projection;
uniform mat4 view;
uniform float size;
uniform float scale;

out vec3 vColor;

void main() {
    vec4 mv = view * vec4(position, 1.0);
    gl_PointSize = size * (scale / -mv.z);
    gl_Position = projection * mv;
    vColor = color;
}
`,
	Fragment: `
#version 410 core

in vec3 vColor;
out vec4 outColor;

uniform vec3 tint;
uniform float opacity;

void main() {
    outColor = vec4(vColor * tint, opacity);
}
`,
}
