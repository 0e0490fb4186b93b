package shaders

import "fieldglobe/rendering"

// Aurora glows toward the poles. Uniforms: time, intensity, solarActivity.
var Aurora = rendering.ProgramSource{
	Name: "aurora",
	Vertex: `
#version 410 core

layout (location = 0) in vec3 position;
layout (location = 1) in vec3 normal;
layout (location = 2) in vec2 uv;

uniform mat4 projection;
uniform mat4 view;
uniform mat4 model;

out vec3 vNormal;
out vec2 vUv;

void main() {
    vNormal = normal;
    vUv = uv;
    gl_Position = projection * view * model * vec4(position, 1.0);
}
`,
	Fragment: `
#version 410 core

uniform float time;
uniform float intensity;
uniform float solarActivity;

in vec3 vNormal;
in vec2 vUv;
out vec4 outColor;

float randNoise(vec2 p) {
    return fract(sin(dot(p, vec2(12.9898, 78.233))) * 43758.5453);
}

void main() {
    float aurora = pow(abs(vNormal.y), 8.0) * intensity;
    float wave = sin(time * 0.5 + vUv.x * 10.0 + vUv.y * 5.0);
    float noiseVal = randNoise(vUv * 10.0 + time);

    vec3 baseColor = mix(vec3(0.1, 0.5, 0.2), vec3(0.2, 0.8, 0.4), wave);
    vec3 activeColor = mix(baseColor, vec3(0.5, 0.8, 1.0), solarActivity * noiseVal);

    float alpha = aurora * (0.5 + 0.5 * wave) * (0.8 + 0.2 * noiseVal);
    outColor = vec4(activeColor, alpha * intensity);
}
`,
}
