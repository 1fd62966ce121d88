package render

// Shader sources for the flat-colour shape renderer

// Passes the position attribute straight through
const vertexShaderSource = `#version 410 core
layout (location = 0) in vec3 aPos;

void main()
{
    gl_Position = vec4(aPos.x, aPos.y, aPos.z, 1.0);
}
`

// Fills every fragment with a fixed orange
const fragmentShaderSource = `#version 410 core
out vec4 FragColor;

void main()
{
    FragColor = vec4(1.0f, 0.5f, 0.2f, 1.0f);
}
`
