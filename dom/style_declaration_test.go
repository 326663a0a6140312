package dom

import (
	"testing"
)

func TestCSSStyleDeclarationBasic(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")

	sd := el.Style()

	if sd.Length() != 0 {
		t.Errorf("Expected length 0, got %d", sd.Length())
	}
	if sd.CSSText() != "" {
		t.Errorf("Expected empty cssText, got %q", sd.CSSText())
	}
}

func TestCSSStyleDeclarationSetProperty(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")
	sd := el.Style()

	sd.SetProperty("color", "red")

	if sd.Length() != 1 {
		t.Errorf("Expected length 1, got %d", sd.Length())
	}
	if sd.GetPropertyValue("color") != "red" {
		t.Errorf("Expected color 'red', got %q", sd.GetPropertyValue("color"))
	}
	if sd.CSSText() != "color: red" {
		t.Errorf("Expected cssText 'color: red', got %q", sd.CSSText())
	}
	if el.GetAttribute("style") != "color: red" {
		t.Errorf("Expected style attribute 'color: red', got %q", el.GetAttribute("style"))
	}
}

func TestCSSStyleDeclarationCamelCase(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")
	sd := el.Style()

	sd.Set("backgroundColor", "#fff")

	if sd.GetPropertyValue("background-color") != "#fff" {
		t.Errorf("Expected background-color '#fff', got %q", sd.GetPropertyValue("background-color"))
	}
	if sd.Get("backgroundColor") != "#fff" {
		t.Errorf("Expected backgroundColor '#fff', got %q", sd.Get("backgroundColor"))
	}
}

func TestCSSStyleDeclarationRemoveProperty(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")
	sd := el.Style()

	sd.SetProperty("color", "red")
	sd.SetProperty("margin", "0")

	if old := sd.RemoveProperty("color"); old != "red" {
		t.Errorf("Expected removed value 'red', got %q", old)
	}
	if sd.CSSText() != "margin: 0" {
		t.Errorf("Expected cssText 'margin: 0', got %q", sd.CSSText())
	}

	sd.RemoveProperty("margin")
	if el.HasAttribute("style") {
		t.Error("Expected style attribute removed with the last property")
	}
}

func TestCSSStyleDeclarationImportant(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")
	sd := el.Style()

	sd.SetProperty("color", "red", "important")

	if sd.GetPropertyPriority("color") != "important" {
		t.Errorf("Expected priority 'important', got %q", sd.GetPropertyPriority("color"))
	}
	if sd.CSSText() != "color: red !important" {
		t.Errorf("Expected cssText 'color: red !important', got %q", sd.CSSText())
	}
}

func TestCSSStyleDeclarationSetCSSText(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")
	sd := el.Style()

	sd.SetProperty("width", "10px")
	sd.SetCSSText("color: blue; ; bogus; margin-top : 4px !important")

	if sd.Length() != 2 {
		t.Fatalf("Expected 2 properties, got %d: %v", sd.Length(), sd.PropertyNames())
	}
	if sd.GetPropertyValue("width") != "" {
		t.Error("Expected previous properties to be cleared")
	}
	if sd.GetPropertyValue("margin-top") != "4px" || sd.GetPropertyPriority("margin-top") != "important" {
		t.Errorf("Unexpected margin-top %q/%q", sd.GetPropertyValue("margin-top"), sd.GetPropertyPriority("margin-top"))
	}
}

func TestCSSStyleDeclarationFromAttribute(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")
	el.SetAttribute("style", "color: green; padding: 1px")

	sd := el.Style()
	if sd.GetPropertyValue("padding") != "1px" {
		t.Errorf("Expected padding '1px', got %q", sd.GetPropertyValue("padding"))
	}

	el.SetAttribute("style", "opacity: 0")
	if sd.Length() != 1 || sd.GetPropertyValue("opacity") != "0" {
		t.Errorf("Expected declaration to follow the attribute, got %q", sd.CSSText())
	}
}

func TestNormalizeCSSPropertyName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"color", "color"},
		{"backgroundColor", "background-color"},
		{"background-color", "background-color"},
		{"BORDER-TOP", "border-top"},
		{"WebkitTransform", "-webkit-transform"},
		{"--mainColor", "--mainColor"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := normalizeCSSPropertyName(tt.input); got != tt.expected {
			t.Errorf("normalizeCSSPropertyName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestCSSStyleDeclarationEmptyValueRemoves(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")
	sd := el.Style()

	sd.Set("color", "red")
	sd.Set("color", "  ")

	if sd.Length() != 0 {
		t.Errorf("Expected empty value to remove the property, got %q", sd.CSSText())
	}
}
