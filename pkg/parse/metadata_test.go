package parse

import "testing"

func TestExtractMetadataDates(t *testing.T) {
	p := NewParser(NCGProfile)

	cases := []struct {
		name      string
		text      string
		wantISO   string
		wantTexto string
	}{
		{
			name:      "caps no preposition",
			text:      "NORMA DE CARÁCTER GENERAL N° 14\n\nSANTIAGO, 04 SEPTIEMBRE 2024\n",
			wantISO:   "2024-09-04",
			wantTexto: "04 de septiembre de 2024",
		},
		{
			name:      "lowercase with prepositions",
			text:      "INSTRUCTIVO SUPERIR N° 3\n\nSantiago, 11 de agosto de 2023\n",
			wantISO:   "2023-08-11",
			wantTexto: "11 de agosto de 2023",
		},
		{
			name:      "single digit day",
			text:      "Santiago, 5 de enero de 2022",
			wantISO:   "2022-01-05",
			wantTexto: "05 de enero de 2022",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			md := p.extractMetadata(tc.text)
			if md.fechaISO != tc.wantISO {
				t.Errorf("fechaISO = %q, want %q", md.fechaISO, tc.wantISO)
			}
			if md.fechaTexto != tc.wantTexto {
				t.Errorf("fechaTexto = %q, want %q", md.fechaTexto, tc.wantTexto)
			}
		})
	}
}

func TestExtractMetadataNumero(t *testing.T) {
	cases := []struct {
		name    string
		profile Profile
		text    string
		want    string
	}{
		{"ncg full form", NCGProfile, "NORMA DE CARÁCTER GENERAL N° 14", "14"},
		{"ncg short form", NCGProfile, "NCG N.° 31", "31"},
		{"ncg absent", NCGProfile, "Documento sin encabezado legible", ""},
		{"instructivo superir", InstructivoProfile, "INSTRUCTIVO SUPERIR N° 2", "2"},
		{"instructivo plain", InstructivoProfile, "INSTRUCTIVO N° 5", "5"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewParser(tc.profile)
			if md := p.extractMetadata(tc.text); md.numero != tc.want {
				t.Errorf("numero = %q, want %q", md.numero, tc.want)
			}
		})
	}
}

func TestExtractMetadataMateria(t *testing.T) {
	p := NewParser(NCGProfile)
	text := "NCG N° 14\n\nMAT.: Imparte instrucciones sobre rendición\nde cuentas de los veedores.\n\nSANTIAGO, 04 SEPTIEMBRE 2024\n"
	md := p.extractMetadata(text)
	if md.materia == "" {
		t.Fatal("materia not extracted")
	}
	want := "Imparte instrucciones sobre rendición de cuentas de los veedores."
	if md.materia != want {
		t.Errorf("materia = %q, want %q", md.materia, want)
	}
}

func TestExtractMetadataResolucionExenta(t *testing.T) {
	p := NewParser(InstructivoProfile)
	md := p.extractMetadata("RESOLUCIÓN EXENTA N° 1234\n\nINSTRUCTIVO SUPERIR N° 2\n")
	if md.resolucionExenta != "1234" {
		t.Errorf("resolucionExenta = %q, want %q", md.resolucionExenta, "1234")
	}
}
