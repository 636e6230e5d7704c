package pinyin

import (
	"iter"

	"github.com/jusunglee/pinyin/internal/dict"
)

// substitute applies the batches in order. Each batch sees the output of the
// previous one; see dict.Batch.Replace for the per-batch matching rule.
func substitute(s string, batches iter.Seq2[*dict.Batch, error]) (string, error) {
	for batch, err := range batches {
		if err != nil {
			return "", err
		}
		s = batch.Replace(s)
	}
	return s, nil
}
