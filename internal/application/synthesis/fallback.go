// Package synthesis 将提示词与参数集合成 OpenSCAD 源码
package synthesis

import (
	"fmt"
	"strings"

	"model3d-ai-api/internal/domain/entity"
)

// paramOrDefault 取用户参数字面量，缺省时用固定默认值
func paramOrDefault(parameters map[string]entity.ParameterValue, name, def string) string {
	if v, ok := parameters[name]; ok {
		return v.Literal()
	}
	return def
}

// fallbackCode 按提示词关键词选择静态模板
// 最后一级兜底，任何输入都能产出非空代码
func fallbackCode(prompt string, parameters map[string]entity.ParameterValue) string {
	lower := strings.ToLower(prompt)

	switch {
	case strings.Contains(lower, "cube") || strings.Contains(lower, "box"):
		return fmt.Sprintf(`// Customizable Cube
// Generated by 3D Model Generator

// Parameters
width = %s;  // Width of the cube
height = %s;  // Height of the cube
depth = %s;  // Depth of the cube

// Main module
module custom_cube(w, h, d) {
    cube([w, h, d]);
}

// Generate the cube
custom_cube(width, height, depth);
`,
			paramOrDefault(parameters, "width", "10"),
			paramOrDefault(parameters, "height", "10"),
			paramOrDefault(parameters, "depth", "10"))

	case strings.Contains(lower, "sphere") || strings.Contains(lower, "ball"):
		return fmt.Sprintf(`// Customizable Sphere
// Generated by 3D Model Generator

// Parameters
radius = %s;  // Radius of the sphere

// Main module
module custom_sphere(r) {
    sphere(r=r);
}

// Generate the sphere
custom_sphere(radius);
`,
			paramOrDefault(parameters, "radius", "10"))

	case strings.Contains(lower, "cylinder") || strings.Contains(lower, "tube"):
		return fmt.Sprintf(`// Customizable Cylinder
// Generated by 3D Model Generator

// Parameters
height = %s;  // Height of the cylinder
radius = %s;  // Radius of the cylinder

// Main module
module custom_cylinder(h, r) {
    cylinder(h=h, r=r);
}

// Generate the cylinder
custom_cylinder(height, radius);
`,
			paramOrDefault(parameters, "height", "20"),
			paramOrDefault(parameters, "radius", "5"))

	case strings.Contains(lower, "cone"):
		return fmt.Sprintf(`// Customizable Cone
// Generated by 3D Model Generator

// Parameters
height = %s;  // Height of the cone
radius1 = %s;  // Radius of the base
radius2 = %s;  // Radius of the top (0 for a pointed cone)

// Main module
module custom_cone(h, r1, r2) {
    cylinder(h=h, r1=r1, r2=r2);
}

// Generate the cone
custom_cone(height, radius1, radius2);
`,
			paramOrDefault(parameters, "height", "20"),
			paramOrDefault(parameters, "radius1", "10"),
			paramOrDefault(parameters, "radius2", "0"))

	default:
		return fmt.Sprintf(`// Default 3D Model
// Generated by 3D Model Generator

// Parameters
size = %s;  // Size of the object

// Main module
module default_object(size) {
    cube(size);
}

// Generate the object
default_object(size);
`,
			paramOrDefault(parameters, "size", "10"))
	}
}
