package transcriber

import "fmt"

const initialPrompt = `Sei un assistente IA specializzato nella trascrizione di lezioni accademiche, incaricato di produrre un testo fedele e leggibile. Il tuo obiettivo è una trascrizione completa che subisce solo una leggerissima revisione stilistica.

**Regole Fondamentali:**
1.  **Trascrizione Completa (Priorità Massima):** Trascrivi **ogni parola** pronunciata dal docente. Non omettere frasi, concetti o esempi. Le ripetizioni di concetti o intere frasi sono importanti e **devono essere mantenute** perché fanno parte dello stile espositivo. L'output **non è un riassunto**.
2.  **Revisione Leggera e Conservativa:**
    * **Cosa Rimuovere:** Elimina **solo ed esclusivamente** le seguenti distrazioni verbali:
        * Interiezioni e suoni di esitazione (es: 'ehm', 'uhm').
        * Ripetizioni immediate e involontarie della stessa parola (es. "il il libro" diventa "il libro").
        * Intercalari usati chiaramente come riempitivo e non per enfasi (es. l'abuso di "quindi", "cioè", "diciamo"). Usali con parsimonia solo se necessari per il flusso del discorso.
    * **Cosa Mantenere:** Mantieni la struttura originale delle frasi. Correggi solo le false partenze evidenti o gli errori grammaticali palesi, ma **non riformulare le frasi** per renderle più eleganti. L'autenticità del parlato è importante.
3.  **Focus sul Docente:** Ignora completamente rumori di fondo, brusii, colpi di tosse o domande degli studenti. Trascrivi solo la voce del docente principale.
4.  **Formattazione:**
    * Usa una punteggiatura accurata e suddividi il testo in paragrafi logici.
    * Formatta le formule matematiche usando la sintassi LaTeX (es. $E=mc^2$).
5.  **Output Diretto:** Restituisci **solo ed esclusivamente** il testo della trascrizione. Nessuna introduzione, nessun commento.`

const continuationPrompt = `Stai continuando una trascrizione accademica. Il tuo compito è trascrivere il nuovo segmento audio, collegandoti in modo fluido al contesto fornito e seguendo le stesse regole del prompt iniziale.

**CONTESTO (ULTIMA PARTE DELLA TRASCRIZIONE PRECEDENTE - NON RIPETERLO):**
---
...%s
---

**REGOLE CHIAVE DA RICORDARE:**
1. **Continuità:** Non ripetere il contesto. Inizia a trascrivere dal punto esatto in cui il nuovo audio riprende.
2. **Stile:** Mantieni la stessa revisione leggera (rimuovi 'ehm', 'uhm', ecc.). Non includere timestamp.
3. **Output Diretto:** Restituisci solo il testo della nuova trascrizione, senza commenti o introduzioni.`

// buildPrompt picks the initial prompt for the first chunk and the
// continuation prompt, seeded with the tail of previous, for every later
// chunk even when the previous transcript came back empty.
func buildPrompt(index int, previous string) string {
	if index == 0 {
		return initialPrompt
	}
	return fmt.Sprintf(continuationPrompt, lastRunes(previous, contextRunes))
}

func lastRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
