// Package shaders holds the GLSL sources of the built-in programs.
package shaders

import "fieldglobe/rendering"

// Phong lights meshes with one directional light plus emissive. The base
// color can be modulated by a texture whose alpha may drive opacity, and a
// height map can perturb the normal.
var Phong = rendering.ProgramSource{
	Name: "phong",
	Vertex: `
#version 410 core

layout (location = 0) in vec3 position;
layout (location = 1) in vec3 normal;
layout (location = 2) in vec2 uv;

uniform mat4 projection;
uniform mat4 view;
uniform mat4 model;

out vec3 vNormal;
out vec3 vWorldPos;
out vec2 vUv;

void main() {
    vec4 world = model * vec4(position, 1.0);
    vWorldPos = world.xyz;
    vNormal = mat3(model) * normal;
    vUv = uv;
    gl_Position = projection * view * world;
}
`,
	Fragment: `
#version 410 core

in vec3 vNormal;
in vec3 vWorldPos;
in vec2 vUv;
out vec4 outColor;

uniform vec3 color;
uniform vec3 emissive;
uniform float emissiveIntensity;
uniform float opacity;

uniform bool useMap;
uniform bool alphaMap;
uniform sampler2D map;

uniform bool useBump;
uniform sampler2D bumpMap;
uniform float bumpScale;
uniform vec2 bumpTexel;

uniform vec3 lightDir;
uniform vec3 cameraPos;

void main() {
    vec3 n = normalize(vNormal);

    if (useBump) {
        float h  = texture(bumpMap, vUv).r;
        float hx = texture(bumpMap, vUv + vec2(bumpTexel.x, 0.0)).r;
        float hy = texture(bumpMap, vUv + vec2(0.0, bumpTexel.y)).r;
        vec3 up = abs(n.y) > 0.999 ? vec3(1.0, 0.0, 0.0) : vec3(0.0, 1.0, 0.0);
        vec3 t = normalize(cross(up, n));
        vec3 b = cross(n, t);
        n = normalize(n - bumpScale * 0.01 * ((hx - h) * t + (hy - h) * b));
    }

    vec4 base = vec4(color, 1.0);
    if (useMap) {
        vec4 tex = texture(map, vUv);
        base.rgb *= tex.rgb;
        if (alphaMap) {
            base.a = tex.a;
        }
    }

    vec3 l = normalize(lightDir);
    float diffuse = max(dot(n, l), 0.0);
    vec3 viewDir = normalize(cameraPos - vWorldPos);
    float specular = pow(max(dot(n, normalize(l + viewDir)), 0.0), 30.0) * 0.1;

    vec3 lit = base.rgb * (0.35 + 0.8 * diffuse) + specular + emissive * emissiveIntensity;
    outColor = vec4(lit, base.a * opacity);
}
`,
}
