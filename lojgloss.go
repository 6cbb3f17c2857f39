// Package lojgloss is a dictionary-driven gloss translator between English
// and Lojban.
//
// English input is split into sentences, segmented greedily into the longest
// dictionary phrases, and each remaining word is resolved through a fallback
// chain: exact lemma, cached decision, synonyms, then vector similarity.
// Every sentence renders as one templated Lojban line ("u'i lo <subject> ...
// cu <object>"). Words that cannot be resolved appear as "[word]". The
// reverse direction maps Lojban words back to their first English gloss.
//
//	t := lojgloss.NewTranslator(
//		lojgloss.WithDictionary(lojgloss.FileSource("data/glosswords.json")),
//		lojgloss.WithCache(cache.NewInMemoryCache(3600)),
//	)
//	res, err := t.Translate(ctx, "The man loves the dog.", lojgloss.Forward)
//	// res.Text() == "u'i lo nanmu prami cu gerku"
//
// Subpackages supply the pieces: nlp (English tokenization and
// lemmatization), provider (WordNet, thesaurus and OpenAI embedding
// lookups), cache (memory and Redis decision stores) and processor (HTML and
// plain-text extraction).
package lojgloss
