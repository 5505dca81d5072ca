package classifier

import "strings"

const promptPreviewLen = 15000

// videoMarkers are the structural labels the extractor writes into video
// content. Their presence switches the prompt to video analysis.
var videoMarkers = []string{"VIDEO", "VIDEO DE YOUTUBE", "CANAL:", "TÍTULO DEL VIDEO:"}

// buildPrompt assembles the classification prompt. The content is capped
// so large pages stay inside the model context window.
func buildPrompt(content string) string {
	preview := truncateRunes(content, promptPreviewLen)

	isVideo := false
	for _, marker := range videoMarkers {
		if strings.Contains(content, marker) {
			isVideo = true
			break
		}
	}

	var b strings.Builder
	b.WriteString("Analiza el siguiente contenido y genera un JSON con la clasificación. ")
	b.WriteString("SÉ ESPECÍFICO Y PRECISO. NO uses etiquetas genéricas como 'general'.\n\n")
	b.WriteString("CONTENIDO:\n")
	b.WriteString(preview)
	b.WriteString("\n\nREGLAS OBLIGATORIAS:\n")
	b.WriteString("1. TÍTULO: Crea un título descriptivo y específico basado en el contenido real (máx 120 caracteres)\n")
	b.WriteString("2. SUMMARY: Resumen detallado de 200-800 caracteres explicando QUÉ enseña, QUÉ conceptos cubre, QUÉ tecnologías menciona\n")
	b.WriteString("3. DETAILEDCONTENT: Documento Markdown completo (mín 500 caracteres) con:\n")
	b.WriteString("   - Título principal\n")
	b.WriteString("   - Resumen ejecutivo\n")
	b.WriteString("   - Puntos clave por secciones\n")
	b.WriteString("   - Conceptos importantes\n")
	b.WriteString("   - Tecnologías/frameworks mencionados\n")
	b.WriteString("   - Conclusiones o takeaways\n")
	b.WriteString("4. TYPE: 'video', 'articulo', 'tutorial', 'codigo', 'documentacion', 'investigacion', o 'nota'\n")
	b.WriteString("5. DESTINATION: 'apunte', 'idea', 'recurso', o 'tarea'\n")
	b.WriteString("6. TAGS: Array con 4-6 etiquetas ESPECÍFICAS extraídas del contenido. ")
	b.WriteString("Ejemplos: 'react-hooks', 'futbol-espanol', 'sanidad-publica', 'algoritmos-grafos'. ")
	b.WriteString("PROHIBIDO usar 'general', 'varios', 'otros', 'tecnologia', 'programacion'.\n\n")
	if isVideo {
		b.WriteString("ES UN VIDEO: Analiza el título y descripción para extraer temas, tecnologías y conceptos específicos.\n\n")
	}
	b.WriteString("Responde SOLO con JSON válido, sin texto adicional:\n")
	b.WriteString(`{"type":"tipo","title":"título","summary":"resumen","detailedContent":"# Título\n\n## Resumen\n\n...","destination":"apunte","tags":["tag1","tag2","tag3","tag4"]}`)
	return b.String()
}
