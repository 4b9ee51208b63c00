package theme

func builtinLayouts() []LayoutTemplate {
	return []LayoutTemplate{
		{
			ID:          "classic",
			DisplayName: "Classic",
			Description: "Serif type, cream pages and a thin gold frame",
			Icon:        "book",
			Styles: Styles{
				FontFamily:      "Georgia, 'Times New Roman', serif",
				HeadingFont:     "Georgia, 'Times New Roman', serif",
				PageBackground:  "#fdfaf3",
				TextColor:       "#3b3024",
				AccentColor:     "#b08d57",
				Border:          "1px solid #b08d57",
				BorderRadius:    "0",
				PagePadding:     "48px",
				PhotoFrame:      "8px solid #ffffff",
				CaptionSize:     "16px",
				CaptionStyle:    "italic",
				BadgeBackground: "#b08d57",
				BadgeColor:      "#ffffff",
			},
		},
		{
			ID:          "modern",
			DisplayName: "Modern",
			Description: "Clean sans-serif type with full-bleed photos",
			Icon:        "square",
			Styles: Styles{
				FontFamily:      "'Helvetica Neue', Arial, sans-serif",
				HeadingFont:     "'Helvetica Neue', Arial, sans-serif",
				PageBackground:  "#ffffff",
				TextColor:       "#1f2933",
				AccentColor:     "#3e7cb1",
				Border:          "none",
				BorderRadius:    "0",
				PagePadding:     "24px",
				PhotoFrame:      "none",
				CaptionSize:     "14px",
				CaptionStyle:    "normal",
				BadgeBackground: "#1f2933",
				BadgeColor:      "#ffffff",
			},
		},
		{
			ID:          "playful",
			DisplayName: "Playful",
			Description: "Rounded corners, bright accents and a hand-drawn feel",
			Icon:        "sparkles",
			Styles: Styles{
				FontFamily:      "'Comic Neue', 'Trebuchet MS', sans-serif",
				HeadingFont:     "'Baloo 2', 'Trebuchet MS', sans-serif",
				PageBackground:  "#fff8e7",
				TextColor:       "#4a3b62",
				AccentColor:     "#ff8a5b",
				Border:          "4px dashed #ffc857",
				BorderRadius:    "24px",
				PagePadding:     "40px",
				PhotoFrame:      "6px solid #ffc857",
				CaptionSize:     "18px",
				CaptionStyle:    "normal",
				BadgeBackground: "#ff8a5b",
				BadgeColor:      "#ffffff",
			},
		},
		{
			ID:          "minimal",
			DisplayName: "Minimal",
			Description: "Lots of white space and small captions",
			Icon:        "minus",
			Styles: Styles{
				FontFamily:      "'Inter', 'Segoe UI', sans-serif",
				HeadingFont:     "'Inter', 'Segoe UI', sans-serif",
				PageBackground:  "#ffffff",
				TextColor:       "#444444",
				AccentColor:     "#999999",
				Border:          "none",
				BorderRadius:    "0",
				PagePadding:     "72px",
				PhotoFrame:      "1px solid #eeeeee",
				CaptionSize:     "12px",
				CaptionStyle:    "normal",
				BadgeBackground: "transparent",
				BadgeColor:      "#999999",
			},
		},
	}
}

func builtinColorThemes() []ColorTheme {
	return []ColorTheme{
		{ID: "cream", DisplayName: "Cream", Background: "#f6efe1", Foreground: "#4b3a2a"},
		{ID: "sage", DisplayName: "Sage", Background: "#b7c9a8", Foreground: "#26351f"},
		{ID: "blush", DisplayName: "Blush", Background: "#f4c7c3", Foreground: "#5b2a2a"},
		{ID: "sky", DisplayName: "Sky", Background: "#bcd9ef", Foreground: "#1d3b53"},
		{ID: "charcoal", DisplayName: "Charcoal", Background: "#2f3437", Foreground: "#f5f5f5"},
	}
}
