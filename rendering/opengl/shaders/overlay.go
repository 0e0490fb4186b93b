package shaders

import "fieldglobe/rendering"

// Overlay draws screen-space colored triangles in pixel coordinates.
var Overlay = rendering.ProgramSource{
	Name: "overlay",
	Vertex: `
#version 410 core

layout (location = 0) in vec2 position;
layout (location = 1) in vec4 color;

out vec4 fragColor;

uniform mat4 projection;

void main() {
    gl_Position = projection * vec4(position, 0.0, 1.0);
    fragColor = color;
}
`,
	Fragment: `
#version 410 core

in vec4 fragColor;
out vec4 outColor;

void main() {
    outColor = fragColor;
}
`,
}
