package library

import (
	"context"
	"path/filepath"

	"jellyprep/internal/state"
	"jellyprep/internal/tmdb"
	"jellyprep/internal/trailer"
)

// handleTrailer downloads a trailer for the folder, honouring the exclusion
// ledger. Only pre-cutoff releases can be excluded permanently: old titles
// often have no usable trailer and retrying them forever is wasted quota.
func (p *Pipeline) handleTrailer(ctx context.Context, folder string, kind trailer.Kind) {
	if p.trailers == nil {
		return
	}
	if fileExists(filepath.Join(folder, trailer.FileName)) {
		return
	}

	name := filepath.Base(folder)
	id := ExtractTMDBID(name)
	if id == 0 {
		return
	}
	year := ExtractYear(name)

	old := year > 0 && year < state.ExclusionYearCutoff
	if old && p.ledger.IsExcluded(id) {
		p.log.Debug("skipping excluded trailer", "folder", name)
		return
	}

	success := p.fetchTrailer(ctx, folder, id, kind)
	if success {
		p.ledger.RecordSuccess(id)
	} else if old {
		p.ledger.RecordFailure(id, name)
	}
}

// fetchTrailer resolves titles from the catalog and delegates the search
// and download to the trailer manager.
func (p *Pipeline) fetchTrailer(ctx context.Context, folder string, id int64, kind trailer.Kind) bool {
	var en *tmdb.Record
	var err error
	if kind == trailer.KindMovie {
		en, _, err = p.catalog.MovieByID(ctx, id)
	} else {
		en, _, err = p.catalog.TVByID(ctx, id)
	}
	if err != nil || en == nil {
		p.log.Debug("no catalog data for trailer", "folder", filepath.Base(folder), "error", err)
		return false
	}

	origTitle := en.OriginalDisplayTitle()
	if origTitle == "" {
		origTitle = en.DisplayTitle()
	}
	return p.trailers.Fetch(ctx, folder, origTitle, en.DisplayTitle(), en.Year(), kind)
}
