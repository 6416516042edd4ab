package qr

import (
	"encoding/base64"
	"html/template"
	"io"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultPrintDelay es el fallback si el evento load de la imagen no llega.
const DefaultPrintDelay = 1500 * time.Millisecond

// Tag son los datos de la etiqueta imprimible (4in x 3in).
type Tag struct {
	PublicID string
	Species  string
	Area     string
	Image    Image
	// PrintDelay <= 0 usa DefaultPrintDelay.
	PrintDelay time.Duration
}

type tagView struct {
	PublicID     string
	SpeciesLabel string
	Area         string
	ImageSrc     template.URL
	DelayMillis  int64
}

var titleCaser = cases.Title(language.English)

var tagTemplate = template.Must(template.New("tag").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>QR Tag - {{.PublicID}}</title>
<style>
  @page { size: 4in 3in; margin: 0.25in; }
  body { font-family: Arial, sans-serif; text-align: center; margin: 0; padding: 20px; }
  .tag { border: 2px solid #000; padding: 15px; border-radius: 8px; }
  .header { font-size: 18px; font-weight: bold; margin-bottom: 10px; }
  .animal-id { font-size: 16px; font-weight: bold; margin: 10px 0; }
  .meta { font-size: 12px; margin: 4px 0; }
  .instructions { font-size: 10px; margin-top: 10px; }
  img { width: 140px; height: 140px; }
</style>
</head>
<body>
<div class="tag">
  <div class="header">StreetPaws ID</div>
  <img id="qr" src="{{.ImageSrc}}" alt="QR Code for {{.PublicID}}">
  <div class="animal-id">{{.PublicID}}</div>
  {{- if .SpeciesLabel}}
  <div class="meta">{{.SpeciesLabel}}{{if .Area}} &middot; {{.Area}}{{end}}</div>
  {{- end}}
  <div class="instructions">Scan to view animal details<br>or visit StreetPaws with this ID</div>
</div>
<script>
  (function () {
    var printed = false;
    function doPrint() {
      if (printed) { return; }
      printed = true;
      window.print();
    }
    var img = document.getElementById("qr");
    if (img.complete) {
      doPrint();
    } else {
      img.addEventListener("load", doPrint);
    }
    setTimeout(doPrint, {{.DelayMillis}});
  })();
</script>
</body>
</html>
`))

// RenderTag escribe la etiqueta HTML; el navegador imprime cuando la imagen
// terminó de cargar o, como máximo, tras PrintDelay.
func RenderTag(w io.Writer, t Tag) error {
	delay := t.PrintDelay
	if delay <= 0 {
		delay = DefaultPrintDelay
	}
	img := t.Image
	if len(img.Data) == 0 {
		img = Placeholder()
	}

	var label string
	if s := strings.TrimSpace(t.Species); s != "" {
		label = titleCaser.String(s)
	}

	return tagTemplate.Execute(w, tagView{
		PublicID:     t.PublicID,
		SpeciesLabel: label,
		Area:         strings.TrimSpace(t.Area),
		ImageSrc:     DataURI(img),
		DelayMillis:  delay.Milliseconds(),
	})
}

// DataURI embebe la imagen para que la etiqueta no dependa de otra request.
func DataURI(img Image) template.URL {
	return template.URL("data:" + img.ContentType + ";base64," + base64.StdEncoding.EncodeToString(img.Data))
}
