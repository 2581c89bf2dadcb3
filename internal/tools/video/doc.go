// Package video provides the FFmpeg-backed tools. These are always
// registered; no inference credential is required.
//
// Tools:
//   - get_video_info: probe duration, resolution, codec
//   - extract_video_frames: equally spaced frame extraction
//   - extract_video_audio: audio track to MP3
//   - split_video: segment the video by duration
package video
