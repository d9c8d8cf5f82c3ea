// Package reader answers IP lookups against an in-memory MaxMind DB image.
package reader

import (
	"sync/atomic"

	"go-mmdb/pkg/cache"
	"go-mmdb/pkg/customerrors"
	"go-mmdb/pkg/decoder"
	"go-mmdb/pkg/ipaddr"
	"go-mmdb/pkg/metadata"
	"go-mmdb/pkg/tree"
	"go-mmdb/pkg/types"
	"go-mmdb/util/logger"
	"go-mmdb/util/stream"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Result is the outcome of one lookup. Value is nil when the address is
// not in the database.
type Result struct {
	Value        types.DataType
	PrefixLength int
}

type CacheStats struct {
	Size    int
	MaxSize int
}

// state is everything derived from one image. It is never modified after
// Load publishes it.
type state struct {
	image   []byte
	meta    *metadata.Metadata
	tree    *tree.Tree
	decoder *decoder.Decoder
}

// Reader is safe for concurrent use.
type Reader struct {
	opts  Options
	cache cache.Cache
	state atomic.Pointer[state]
	log   *logrus.Entry
}

// New creates an unloaded Reader. A nil opts uses DefaultOptions.
func New(opts *Options) (*Reader, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	c, err := opts.cache()
	if err != nil {
		return nil, err
	}
	return &Reader{
		opts:  *opts,
		cache: c,
		log:   logger.For("reader"),
	}, nil
}

// Load parses image and makes it the database answering lookups. On error
// the previously loaded database, if any, stays in place. The reader keeps
// a reference to image, which must not be modified afterwards.
func (r *Reader) Load(image []byte) error {
	meta, err := metadata.Parse(image)
	if err != nil {
		return errors.Wrap(err, "failed to parse metadata")
	}
	if err := meta.Validate(uint(len(image))); err != nil {
		return errors.Wrap(err, "invalid metadata")
	}

	t, err := tree.New(image, meta)
	if err != nil {
		return errors.Wrap(err, "failed to open search tree")
	}

	dataEnd := meta.DataSectionStart() + meta.DataSectionSize()
	s := &state{
		image:   image,
		meta:    meta,
		tree:    t,
		decoder: decoder.New(image[:dataEnd], meta.DataSectionStart(), decoder.WithMaxDepth(r.opts.MaxDecodeDepth)),
	}

	r.state.Store(s)
	if r.cache != nil {
		r.cache.Purge()
	}

	r.log.WithFields(logrus.Fields{
		"type":  meta.DatabaseType,
		"ip":    meta.IPVersion,
		"nodes": meta.NodeCount,
		"size":  humanize.Bytes(uint64(len(image))),
	}).Info("database loaded")
	return nil
}

func (r *Reader) Loaded() bool {
	return r.state.Load() != nil
}

// Lookup finds the record for ip and reports every failure as an error.
// The other lookup methods are built on it. The returned value belongs to
// the caller; the cache keeps its own copy.
func (r *Reader) Lookup(ip string) (Result, error) {
	s := r.state.Load()
	if s == nil {
		return Result{}, customerrors.ErrNotLoaded
	}

	addr, _, err := ipaddr.ParseIPToBytes(ip)
	if err != nil {
		return Result{}, err
	}

	if r.cache != nil {
		if e, ok := r.cache.Get(ip); ok {
			return Result{Value: types.Clone(e.Value), PrefixLength: e.PrefixLength}, nil
		}
	}

	record, prefixLen, err := s.tree.Walk(addr)
	if err != nil {
		var addrErr *customerrors.InvalidAddressError
		if errors.As(err, &addrErr) {
			addrErr.Addr = ip
		}
		return Result{}, err
	}

	switch {
	case record == s.tree.NodeCount():
		return Result{PrefixLength: prefixLen}, nil
	case record < s.tree.NodeCount():
		return Result{PrefixLength: prefixLen}, customerrors.NewFormatError(record, "search tree ended on node %d after %d bits", record, prefixLen)
	}

	offset, err := s.tree.DataOffset(record)
	if err != nil {
		return Result{PrefixLength: prefixLen}, err
	}
	v, _, err := s.decoder.Decode(offset)
	if err != nil {
		return Result{PrefixLength: prefixLen}, errors.Wrapf(err, "failed to decode record for %s", ip)
	}

	if r.cache != nil {
		r.cache.Add(ip, cache.Entry{Value: types.Clone(v), PrefixLength: prefixLen})
	}
	return Result{Value: v, PrefixLength: prefixLen}, nil
}

// GetWithPrefixLength is Lookup with errors logged and reported as not
// found.
func (r *Reader) GetWithPrefixLength(ip string) Result {
	res, err := r.Lookup(ip)
	if err != nil {
		r.degrade(ip, err)
		return Result{PrefixLength: res.PrefixLength}
	}
	return res
}

func (r *Reader) Get(ip string) types.DataType {
	return r.GetWithPrefixLength(ip).Value
}

// GetWithLanguage returns a copy of the record in which each map holding
// "names" also has a "name" in lang, falling back to English and then to
// the first available language.
func (r *Reader) GetWithLanguage(ip string, lang string) types.DataType {
	v := r.Get(ip)
	if v == nil {
		return nil
	}
	return types.Localize(v, lang)
}

func (r *Reader) degrade(ip string, err error) {
	l := r.log.WithField("ip", ip)
	switch {
	case errors.Is(err, customerrors.ErrInvalidAddress), errors.Is(err, customerrors.ErrNotLoaded):
		l.WithError(err).Debug("lookup failed")
	default:
		l.WithError(err).Warn("corrupt record")
	}
}

// Metadata returns nil when no database is loaded.
func (r *Reader) Metadata() *metadata.Metadata {
	s := r.state.Load()
	if s == nil {
		return nil
	}
	return s.meta
}

func (r *Reader) DatabaseType() string {
	if m := r.Metadata(); m != nil {
		return m.DatabaseType
	}
	return ""
}

func (r *Reader) Languages() []string {
	if m := r.Metadata(); m != nil {
		return m.Languages
	}
	return nil
}

func (r *Reader) ClearCache() {
	if r.cache != nil {
		r.cache.Purge()
	}
}

// CacheStats returns nil when caching is disabled.
func (r *Reader) CacheStats() *CacheStats {
	if r.cache == nil {
		return nil
	}
	return &CacheStats{Size: r.cache.Len(), MaxSize: r.cache.Cap()}
}

// Networks streams every network holding data in address order.
func (r *Reader) Networks() (stream.Reader[tree.Network], error) {
	s := r.state.Load()
	if s == nil {
		return nil, customerrors.ErrNotLoaded
	}
	return s.tree.Networks(), nil
}

// Decode resolves a data record such as tree.Network.Record.
func (r *Reader) Decode(record uint) (types.DataType, error) {
	s := r.state.Load()
	if s == nil {
		return nil, customerrors.ErrNotLoaded
	}
	offset, err := s.tree.DataOffset(record)
	if err != nil {
		return nil, err
	}
	v, _, err := s.decoder.Decode(offset)
	return v, err
}
