package main

import (
	"testing"

	"q2images/internal/texture"
)

func TestTypeFor(t *testing.T) {
	tests := []struct {
		name string
		want texture.Type
	}{
		{"/textures/e1u1/floor1_1.wal", texture.Wall},
		{"models/monsters/tank/skin.pcx", texture.Skin},
		{`\players/male/grunt.pcx`, texture.Skin},
		{"/sprites/s_explod.sp2", texture.Sprite},
		{"/env/unitsky1rt.tga", texture.Sky},
		{"/pics/conchars.pcx", texture.Font},
		{"/Pics/Inventory.pcx", texture.Pic},
		{"help", texture.Pic},
	}
	for _, tt := range tests {
		if got := typeFor(tt.name); got != tt.want {
			t.Errorf("typeFor(%q) = %c, want %c", tt.name, got.Letter(), tt.want.Letter())
		}
	}
}
