package opengl

// Vertex shader: MVP + model transform, world-space position and normal to
// the fragment stage.
const vertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec2 inUV;
layout(location = 3) in vec4 inColor;

uniform mat4 mvp;
uniform mat4 model;

out vec4 fragColor;
out vec3 fragNormal;
out vec2 fragUV;
out vec3 fragWorldPos;

void main() {
    gl_Position  = mvp * vec4(inPosition, 1.0);
    fragColor    = inColor;
    fragNormal   = mat3(model) * inNormal;
    fragUV       = inUV;
    fragWorldPos = (model * vec4(inPosition, 1.0)).xyz;
}
` + "\x00"

// Fragment shader: Phong with one directional light, plus the clipping
// evaluation. insideWedge is the GPU twin of carve.PointInWedge; the two
// predicates must stay identical.
const fragSrc = `
#version 410 core
in vec4 fragColor;
in vec3 fragNormal;
in vec2 fragUV;
in vec3 fragWorldPos;

out vec4 outColor;

uniform vec3  lightDir;
uniform vec3  lightColor;
uniform float lightIntensity;
uniform vec3  ambientColor;
uniform vec3  cameraPos;

uniform vec4  matAlbedo;
uniform vec4  matSpecular;
uniform float matShininess;
uniform bool  unlit;

// Clipping contract: count stamps in [0, 64], unused slots identity.
uniform float carveEnabled;
uniform float carveCount;
uniform mat4  carveStamps[64];

uniform float clipPlaneEnabled;
uniform vec4  clipPlane;

bool insideWedge(vec3 lp) {
    return abs(lp.x) <= 0.5 && lp.y >= 0.0 && lp.z >= 0.0 && lp.y + lp.z <= 1.0;
}

void main() {
    if (clipPlaneEnabled > 0.5 &&
        dot(clipPlane.xyz, fragWorldPos) + clipPlane.w < 0.0) {
        discard;
    }

    if (carveEnabled > 0.5) {
        int n = int(carveCount);
        for (int i = 0; i < 64; i++) {
            if (i >= n) {
                break;
            }
            vec4 lp = carveStamps[i] * vec4(fragWorldPos, 1.0);
            if (insideWedge(lp.xyz)) {
                discard;
            }
        }
    }

    vec4 base = fragColor * matAlbedo;
    if (unlit) {
        outColor = base;
        return;
    }

    vec3 N = normalize(fragNormal);
    vec3 L = normalize(-lightDir);
    vec3 V = normalize(cameraPos - fragWorldPos);

    float diff = max(dot(N, L), 0.0);
    vec3 diffuse = base.rgb * lightColor * lightIntensity * diff;

    vec3 H = normalize(L + V);
    float spec = pow(max(dot(N, H), 0.0), matShininess);
    vec3 specular = matSpecular.rgb * lightColor * lightIntensity * spec;

    vec3 ambient = base.rgb * ambientColor;
    outColor = vec4(ambient + diffuse + specular, base.a);
}
` + "\x00"
