// Package formats provides parsers and writers for animation interchange
// files.
package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zlib"

	"github.com/Faultbox/animpack/pkg/anim"
	"github.com/Faultbox/animpack/pkg/math"
)

// Clip format errors.
var (
	ErrInvalidClipMagic       = errors.New("invalid clip magic: expected 'APKC'")
	ErrUnsupportedClipVersion = errors.New("unsupported clip version")
	ErrTruncatedClipData      = errors.New("truncated clip data")
	ErrCorruptClipPayload     = errors.New("corrupt clip payload")
)

const clipMagic = "APKC"

// ClipVersion represents the clip file version.
type ClipVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v ClipVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// CurrentClipVersion is the version written by WriteClip.
var CurrentClipVersion = ClipVersion{Major: 1, Minor: 0}

// ClipFile carries a skeleton and its raw keyframed tracks.
type ClipFile struct {
	Version  ClipVersion
	Skeleton *anim.RigidSkeleton
	Clip     *anim.Clip
}

// clipHeader is the fixed-size portion following magic and version.
type clipHeader struct {
	NumBones       uint16
	NumSamples     uint32
	SampleRate     float32
	ErrorThreshold float32
}

// ParseClip parses a clip file from raw bytes. The track payload is
// zlib-compressed; bone names and the hierarchy stay uncompressed so a
// reader can list bones without inflating the payload.
func ParseClip(data []byte) (*ClipFile, error) {
	if len(data) < 6 {
		return nil, ErrTruncatedClipData
	}

	if string(data[0:4]) != clipMagic {
		return nil, ErrInvalidClipMagic
	}

	version := ClipVersion{Major: data[4], Minor: data[5]}
	if version.Major != 1 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedClipVersion, version)
	}

	r := bytes.NewReader(data[6:])

	var header clipHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: reading header", ErrTruncatedClipData)
	}
	if header.NumBones == 0 {
		return nil, fmt.Errorf("%w: zero bones", ErrCorruptClipPayload)
	}
	if header.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %f", ErrCorruptClipPayload, header.SampleRate)
	}

	bones := make([]anim.Bone, header.NumBones)
	for i := range bones {
		bone, err := parseBone(r)
		if err != nil {
			return nil, fmt.Errorf("parsing bone %d: %w", i, err)
		}
		bones[i] = bone
	}

	skeleton, err := anim.NewRigidSkeleton(bones)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptClipPayload, err)
	}

	tracks, err := parseTrackPayload(r, int(header.NumBones), int(header.NumSamples))
	if err != nil {
		return nil, err
	}

	clip, err := anim.NewClip(tracks, header.SampleRate, header.ErrorThreshold)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptClipPayload, err)
	}

	return &ClipFile{Version: version, Skeleton: skeleton, Clip: clip}, nil
}

// parseBone parses a single skeleton bone entry.
func parseBone(r *bytes.Reader) (anim.Bone, error) {
	var nameLen uint16
	if err := binary.Read(r, binary.LittleEndian, &nameLen); err != nil {
		return anim.Bone{}, fmt.Errorf("%w: reading name length", ErrTruncatedClipData)
	}

	name := make([]byte, nameLen)
	if _, err := io.ReadFull(r, name); err != nil {
		return anim.Bone{}, fmt.Errorf("%w: reading name", ErrTruncatedClipData)
	}

	var bone anim.Bone
	bone.Name = string(name)
	if err := binary.Read(r, binary.LittleEndian, &bone.Parent); err != nil {
		return anim.Bone{}, fmt.Errorf("%w: reading parent", ErrTruncatedClipData)
	}
	if err := binary.Read(r, binary.LittleEndian, &bone.ShellDistance); err != nil {
		return anim.Bone{}, fmt.Errorf("%w: reading shell distance", ErrTruncatedClipData)
	}
	return bone, nil
}

// parseTrackPayload inflates and decodes the per-bone track section.
func parseTrackPayload(r *bytes.Reader, numBones, numSamples int) ([]anim.BoneTracks, error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: opening payload: %v", ErrCorruptClipPayload, err)
	}
	defer zr.Close()

	payload, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: inflating payload: %v", ErrCorruptClipPayload, err)
	}

	// rotation quat + translation vec3 + scale vec3, all float32
	wantLen := numBones * numSamples * (16 + 12 + 12)
	if len(payload) != wantLen {
		return nil, fmt.Errorf("%w: payload size %d, want %d", ErrCorruptClipPayload, len(payload), wantLen)
	}

	pr := bytes.NewReader(payload)
	tracks := make([]anim.BoneTracks, numBones)
	for boneIndex := range tracks {
		bone := &tracks[boneIndex]
		bone.Rotations = make([]math.Quat, numSamples)
		bone.Translations = make([]math.Vec3, numSamples)
		bone.Scales = make([]math.Vec3, numSamples)

		if err := binary.Read(pr, binary.LittleEndian, bone.Rotations); err != nil {
			return nil, fmt.Errorf("%w: reading rotations of bone %d", ErrCorruptClipPayload, boneIndex)
		}
		if err := binary.Read(pr, binary.LittleEndian, bone.Translations); err != nil {
			return nil, fmt.Errorf("%w: reading translations of bone %d", ErrCorruptClipPayload, boneIndex)
		}
		if err := binary.Read(pr, binary.LittleEndian, bone.Scales); err != nil {
			return nil, fmt.Errorf("%w: reading scales of bone %d", ErrCorruptClipPayload, boneIndex)
		}
	}

	return tracks, nil
}

// WriteClip serializes a skeleton and clip into the container format.
func WriteClip(skeleton *anim.RigidSkeleton, clip *anim.Clip) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(clipMagic)
	buf.WriteByte(CurrentClipVersion.Major)
	buf.WriteByte(CurrentClipVersion.Minor)

	header := clipHeader{
		NumBones:       uint16(clip.NumBones()),
		NumSamples:     uint32(clip.NumSamples()),
		SampleRate:     clip.SampleRate(),
		ErrorThreshold: clip.ErrorThreshold(),
	}
	if err := binary.Write(&buf, binary.LittleEndian, header); err != nil {
		return nil, err
	}

	for boneIndex := 0; boneIndex < skeleton.NumBones(); boneIndex++ {
		bone := skeleton.Bone(uint16(boneIndex))
		if err := writeBone(&buf, bone); err != nil {
			return nil, fmt.Errorf("writing bone %d: %w", boneIndex, err)
		}
	}

	zw := zlib.NewWriter(&buf)
	for boneIndex := 0; boneIndex < clip.NumBones(); boneIndex++ {
		tracks := clip.Tracks(uint16(boneIndex))
		if err := binary.Write(zw, binary.LittleEndian, tracks.Rotations); err != nil {
			return nil, fmt.Errorf("writing rotations of bone %d: %w", boneIndex, err)
		}
		if err := binary.Write(zw, binary.LittleEndian, tracks.Translations); err != nil {
			return nil, fmt.Errorf("writing translations of bone %d: %w", boneIndex, err)
		}
		if err := binary.Write(zw, binary.LittleEndian, tracks.Scales); err != nil {
			return nil, fmt.Errorf("writing scales of bone %d: %w", boneIndex, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// ParseClipFile parses a clip file from disk.
func ParseClipFile(path string) (*ClipFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading clip file: %w", err)
	}
	return ParseClip(data)
}

// WriteClipFile writes a clip file to disk.
func WriteClipFile(path string, skeleton *anim.RigidSkeleton, clip *anim.Clip) error {
	data, err := WriteClip(skeleton, clip)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func writeBone(buf *bytes.Buffer, bone anim.Bone) error {
	if err := binary.Write(buf, binary.LittleEndian, uint16(len(bone.Name))); err != nil {
		return err
	}
	buf.WriteString(bone.Name)
	if err := binary.Write(buf, binary.LittleEndian, bone.Parent); err != nil {
		return err
	}
	return binary.Write(buf, binary.LittleEndian, bone.ShellDistance)
}
