package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/gemini"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/job"
	"github.com/cjdbcurvajxjencj/dIArio-backend/pkg/retry"
)

const summaryPrompt = `Sei un assistente IA esperto nella redazione di testi accademici per la materia di %s. Il tuo compito è trasformare la trascrizione di una lezione in una sintesi didattica che sia al contempo **esaustiva nel contenuto e impeccabile nella struttura**. Devi eseguire due compiti e restituire il risultato come un singolo oggetto JSON.

**REGOLA FONDAMENTALE: Massima Fedeltà alla Trascrizione**
La tua intera elaborazione deve basarsi **ESCLUSIVAMENTE** sul contenuto della trascrizione fornita. **NON DEVI** usare conoscenza esterna. L'obiettivo è valorizzare e strutturare il materiale esistente al suo massimo potenziale, non integrarlo con informazioni nuove.

**COMPITI:**
1.  **Creare una Sintesi Esaustiva e Fedele:**
    *   **Obiettivo:** Trasformare il contenuto della trascrizione in un testo scritto che sia completo, dettagliato e perfettamente organizzato, riflettendo fedelmente la profondità della lezione originale.

    **LINEE GUIDA OBBLIGATORIE PER IL CONTENUTO E LO STILE:**
    *   **Completezza Assoluta (Priorità #1):** Includi **TUTTI** i concetti, le definizioni, gli esempi, le analogie e le spiegazioni presenti nella trascrizione. **Non operare semplificazioni o omissioni per brevità**.
    *   **Riorganizzazione Logica (Priorità #2):** Organizza i contenuti in una struttura gerarchica chiara (titoli, sottotitoli, elenchi puntati), trasformando il flusso non lineare del parlato in un percorso di apprendimento sequenziale.
    *   **Descrizione Dettagliata dei Processi:** Quando la trascrizione descrive un processo o un meccanismo, ricostruiscine le fasi con il **massimo livello di dettaglio consentito dal testo**, elencando tutti gli attori menzionati e il loro ruolo.
    *   **Connessioni Logiche Esplicite:** Rendi esplicite le relazioni di causa-effetto e i collegamenti tra argomenti diversi menzionati nella lezione.
    *   **Riformulazione Accademica:** Mantieni uno stile formale e preciso, eliminando ripetizioni e colloquialismi tipici del discorso orale, senza perdere contenuto informativo.

    **FORMATTAZIONE OBBLIGATORIA DEL RIASSUNTO:**
    *   Usa la sintassi Markdown standard (es. ` + "`## Titolo`, `### Sottotitolo`, `* elenco puntato`, `**grassetto**`" + `).
    *   Utilizza la sintassi LaTeX per **tutte** le formule, espressioni, simboli matematici e cariche ioniche (es. $f(x)=x^2$, $Na^+$, $Cl^-$).

2.  **Generare un Titolo (Argomento) per la Lezione:**
    *   Il titolo deve essere conciso, accademico e descrittivo, composto da un massimo di 5-7 parole, riflettendo l'intero contenuto della trascrizione.

**ISTRUZIONI DI OUTPUT:**
- Restituisci **ESCLUSIVAMENTE** un oggetto JSON valido, senza testo introduttivo o spiegazioni.
- L'oggetto JSON deve avere due chiavi: ` + "`summary`" + ` (stringa) e ` + "`suggestedTopic`" + ` (stringa).

**Trascrizione della lezione:**
---
%s
---
`

// Summarize asks the summary model for a JSON object with the summary and a
// suggested topic. Only quota errors are retried.
func (s *implSummarizer) Summarize(ctx context.Context, remote gemini.Client, req Request) (Summary, error) {
	prompt := fmt.Sprintf(summaryPrompt, req.Subject, req.Transcript)

	var raw string
	b := retry.Backoff{
		Attempts:  s.opts.Attempts,
		Base:      s.opts.BaseDelay,
		MaxJitter: s.opts.MaxJitter,
		Retryable: gemini.IsQuotaExhausted,
		Sleep:     s.opts.Sleep,
		OnRetry: func(attempt int, wait time.Duration, err error) {
			s.logger.Warn(ctx, "[%s] Rate limited while summarizing: %v. Waiting %.1fs", req.JobID, err, wait.Seconds())
		},
	}

	err := b.Do(ctx, func(ctx context.Context, attempt int) error {
		s.logger.Info(ctx, "[%s] Generating summary and topic (attempt %d)", req.JobID, attempt+1)
		var err error
		raw, err = remote.Generate(ctx, gemini.GenerateRequest{
			Model:  req.Model,
			Prompt: prompt,
			JSON:   true,
		})
		return err
	})
	if err != nil {
		var exhausted *retry.ExhaustedError
		if errors.As(err, &exhausted) {
			return Summary{}, job.Errorf(job.KindGeneric, err, "generate summary and topic")
		}
		return Summary{}, fmt.Errorf("generate summary: %w", err)
	}

	sum, err := parseSummary(raw)
	if err != nil {
		s.logger.Error(ctx, "[%s] Could not decode summary response: %s", req.JobID, raw)
		return Summary{}, err
	}
	return sum, nil
}

// parseSummary decodes the model answer, tolerating a Markdown code fence
// around the JSON.
func parseSummary(raw string) (Summary, error) {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```json") {
		text = text[len("```json"):]
	} else if strings.HasPrefix(text, "```") {
		text = text[len("```"):]
	}
	text = strings.TrimSuffix(text, "```")

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return Summary{}, job.Errorf(job.KindSummaryDecode, err, "decode summary JSON")
	}

	var out Summary
	for key, dst := range map[string]*string{"summary": &out.Summary, "suggestedTopic": &out.SuggestedTopic} {
		v, ok := fields[key]
		if !ok || string(v) == "null" {
			return Summary{}, job.Errorf(job.KindSummaryDecode, nil, "summary JSON has no %q key", key)
		}
		if err := json.Unmarshal(v, dst); err != nil {
			return Summary{}, job.Errorf(job.KindSummaryDecode, err, "summary key %q is not a string", key)
		}
	}

	out.SuggestedTopic = strings.ReplaceAll(strings.TrimSpace(out.SuggestedTopic), `"`, "")
	return out, nil
}
