package selector

import (
	"encoding/json"
	"reflect"
	"sync"
	"testing"

	"github.com/1abhishek0948/Universal-Media-downloader/internal/types"
)

func muxed(id string, height int) types.FormatInfo {
	return types.FormatInfo{FormatID: id, Ext: "mp4", VideoCodec: "avc1", AudioCodec: "mp4a", Height: height}
}

func TestSelectTiers_FullLadder(t *testing.T) {
	in := []types.FormatInfo{
		muxed("a", 2160), muxed("b", 1440), muxed("c", 1080), muxed("d", 720),
		muxed("e", 480), muxed("f", 360), muxed("g", 240),
	}
	got := SelectTiers(in)

	want := []Tier{Tier4K, Tier2K, Tier1080p, Tier720p, Tier480p, Tier360p, TierBest}
	if labels := got.Labels(); !reflect.DeepEqual(labels, want) {
		t.Fatalf("Labels()=%v want=%v", labels, want)
	}
	if got[TierBest].FormatID != "a" {
		t.Fatalf("best=%q want=%q", got[TierBest].FormatID, "a")
	}
	for _, sel := range got {
		if sel.FormatID == "g" {
			t.Fatalf("240p format was assigned a tier")
		}
	}
}

func TestSelectTiers_ResolutionSatisfiesBound(t *testing.T) {
	in := []types.FormatInfo{
		muxed("1", 2160), muxed("2", 2160), muxed("3", 2160), muxed("4", 1000),
		muxed("5", 700), muxed("6", 359), muxed("7", 1440), muxed("8", 400),
	}
	got := SelectTiers(in)
	for tier, sel := range got {
		min, ok := tier.MinHeight()
		if !ok {
			continue
		}
		if sel.Resolution == nil || *sel.Resolution < min {
			t.Fatalf("tier %s got resolution %v below %d", tier, sel.Resolution, min)
		}
	}
	if got[Tier4K].FormatID != "1" || got[Tier2K].FormatID != "2" || got[Tier1080p].FormatID != "3" {
		t.Fatalf("first-eligible assignment broken: %+v", got)
	}
	// The 1440 format lands in 720p because 2K was already taken.
	if got[Tier720p].FormatID != "7" || got[Tier480p].FormatID != "4" || got[Tier360p].FormatID != "5" {
		t.Fatalf("lower tiers=%+v", got)
	}
}

func TestSelectTiers_StableTies(t *testing.T) {
	in := []types.FormatInfo{
		muxed("first", 1080),
		muxed("second", 1080),
	}
	got := SelectTiers(in)
	if got[Tier1080p].FormatID != "first" {
		t.Fatalf("1080p=%q want=%q", got[Tier1080p].FormatID, "first")
	}
	if got[Tier720p].FormatID != "second" {
		t.Fatalf("720p=%q want=%q", got[Tier720p].FormatID, "second")
	}
}

func TestSelectTiers_AudioOnly(t *testing.T) {
	in := []types.FormatInfo{
		{FormatID: "140", Ext: "m4a", VideoCodec: types.CodecNone, AudioCodec: "mp4a.40.2", FileSize: 1234},
	}
	got := SelectTiers(in)
	if len(got) != 1 {
		t.Fatalf("len=%d want=1 (%+v)", len(got), got)
	}
	audio, ok := got[TierBestAudio]
	if !ok {
		t.Fatalf("missing %s", TierBestAudio)
	}
	if audio.FormatID != "140" || audio.Ext != "m4a" || audio.Resolution != nil {
		t.Fatalf("audio=%+v", audio)
	}
	if audio.Filesize == nil || *audio.Filesize != 1234 {
		t.Fatalf("filesize=%v want=1234", audio.Filesize)
	}
}

func TestSelectTiers_NoMuxedMeansNoBest(t *testing.T) {
	in := []types.FormatInfo{
		{FormatID: "137", Ext: "mp4", VideoCodec: "avc1", AudioCodec: types.CodecNone, Height: 1080},
		{FormatID: "251", Ext: "webm", VideoCodec: types.CodecNone, AudioCodec: "opus"},
	}
	got := SelectTiers(in)
	if _, ok := got[TierBest]; ok {
		t.Fatalf("unexpected %s: %+v", TierBest, got[TierBest])
	}
	if got[Tier1080p].FormatID != "137" {
		t.Fatalf("video-only format should still fill 1080p: %+v", got)
	}
	if got[TierBestAudio].FormatID != "251" {
		t.Fatalf("audio=%+v", got[TierBestAudio])
	}
}

func TestSelectTiers_Empty(t *testing.T) {
	if got := SelectTiers(nil); len(got) != 0 {
		t.Fatalf("SelectTiers(nil)=%+v want empty", got)
	}
	b, err := json.Marshal(SelectTiers([]types.FormatInfo{}))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(b) != "{}" {
		t.Fatalf("Marshal()=%s want={}", b)
	}
}

func TestSelectTiers_DoesNotMutateInputAndIsIdempotent(t *testing.T) {
	in := []types.FormatInfo{muxed("low", 360), muxed("high", 1080), {FormatID: "a", Ext: "m4a", VideoCodec: "none", AudioCodec: "opus"}}
	orig := append([]types.FormatInfo(nil), in...)

	first := SelectTiers(in)
	second := SelectTiers(in)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("not idempotent: %+v vs %+v", first, second)
	}
	if !reflect.DeepEqual(in, orig) {
		t.Fatalf("input mutated: %+v", in)
	}
}

func TestSelectTiers_Concurrent(t *testing.T) {
	in := []types.FormatInfo{muxed("a", 720), muxed("b", 1080)}
	want := SelectTiers(in)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := SelectTiers(in); !reflect.DeepEqual(got, want) {
				t.Errorf("concurrent result differs: %+v", got)
			}
		}()
	}
	wg.Wait()
}

func TestTierMap_MarshalJSONOrder(t *testing.T) {
	in := []types.FormatInfo{
		{FormatID: "251", Ext: "webm", VideoCodec: "none", AudioCodec: "opus"},
		{FormatID: "18", Ext: "mp4", VideoCodec: "avc1", AudioCodec: "mp4a", Height: 360, FileSize: 100},
		{FormatID: "22", Ext: "mp4", VideoCodec: "avc1", AudioCodec: "mp4a", Height: 720},
	}
	b, err := json.Marshal(SelectTiers(in))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"720p":{"format_id":"22","ext":"mp4","filesize":null,"resolution":720},` +
		`"360p":{"format_id":"18","ext":"mp4","filesize":100,"resolution":360},` +
		`"Best Quality":{"format_id":"22","ext":"mp4","filesize":null,"resolution":720},` +
		`"Best Quality (Audio)":{"format_id":"251","ext":"webm","filesize":null,"resolution":null}}`
	if string(b) != want {
		t.Fatalf("Marshal()=\n%s\nwant=\n%s", b, want)
	}
}

func TestSelectTiers_CodecAndHeightEdges(t *testing.T) {
	for _, tt := range []struct {
		name string
		in   []types.FormatInfo
		want map[Tier]string
	}{
		{
			name: "absent height gets no resolution tier",
			in: []types.FormatInfo{
				{FormatID: "nh", Ext: "mp4", VideoCodec: "avc1", AudioCodec: "mp4a"},
			},
			want: map[Tier]string{TierBest: "nh"},
		},
		{
			name: "absent height still loses best to a taller muxed format",
			in: []types.FormatInfo{
				{FormatID: "nh", Ext: "mp4", VideoCodec: "avc1", AudioCodec: "mp4a"},
				muxed("22", 720),
			},
			want: map[Tier]string{Tier720p: "22", TierBest: "22"},
		},
		{
			name: "empty codecs count as present",
			in: []types.FormatInfo{
				{FormatID: "u", Ext: "mp4", Height: 720},
			},
			want: map[Tier]string{Tier720p: "u", TierBest: "u"},
		},
		{
			name: "only none marks a missing stream",
			in: []types.FormatInfo{
				{FormatID: "v", Ext: "mp4", VideoCodec: "", AudioCodec: types.CodecNone, Height: 1080},
				{FormatID: "a", Ext: "m4a", VideoCodec: types.CodecNone, AudioCodec: ""},
			},
			want: map[Tier]string{Tier1080p: "v", TierBestAudio: "a"},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectTiers(tt.in)
			ids := map[Tier]string{}
			for tier, sel := range got {
				ids[tier] = sel.FormatID
			}
			if !reflect.DeepEqual(ids, tt.want) {
				t.Fatalf("SelectTiers()=%v want=%v", ids, tt.want)
			}
			if best, ok := got[TierBest]; ok && best.FormatID == "nh" && best.Resolution != nil {
				t.Fatalf("resolution=%v want=nil", *best.Resolution)
			}
		})
	}
}
